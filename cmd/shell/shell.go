package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/robertkrimen/isatty"
	"github.com/vilterp/hornlog/pkg"
)

var url = flag.String("url", "ws://localhost:9000/ws", "URL of hornlog server to connect to")

func main() {
	// get cmdline flags
	flag.Parse()

	// connect to server
	client, connErr := hornlog.NewClient(*url)
	if connErr != nil {
		fmt.Println("couldn't connect:", connErr)
		os.Exit(1)
		return
	}
	defer client.Close()

	// Wait for server closing
	go waitForServerClose(client)

	// check if is TTY
	isInputTty := isatty.Check(os.Stdin.Fd())

	if isInputTty {
		fmt.Println("hornlog shell")
		fmt.Println("\\h for help")
	}

	// initialize readline
	prompt := ""
	if isInputTty {
		prompt = fmt.Sprintf("%s> ", *url)
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       "/tmp/.hornlog-history",
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye!",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	for {
		line, readlineErr := l.Readline()
		if readlineErr != nil {
			fmt.Println("bye!")
			os.Exit(0)
		}

		if line == `\h` {
			fmt.Println(`\h	help`)
			fmt.Println(`\d	describe rules and facts`)
			fmt.Println(`\t <atom>	show the proof tree for an atom`)
			continue
		}
		if line == `\d` { // describe rules and facts
			describe(client)
			continue
		}
		if strings.HasPrefix(line, `\t `) {
			atom := strings.TrimSpace(strings.TrimPrefix(line, `\t `))
			if !strings.HasSuffix(atom, "?") {
				atom += "?"
			}
			runQuery(client, atom)
			continue
		}

		if len(strings.Trim(line, "\t ")) == 0 {
			continue
		}

		if strings.HasSuffix(strings.TrimSpace(line), "?") {
			runQuery(client, line)
		} else {
			runStatement(client, line)
		}
	}
}

func waitForServerClose(client *hornlog.Client) {
	<-client.ServerClosed
	log.Println("server closed the connection")
	// TODO: just reset the connection
	os.Exit(0)
}

func describe(client *hornlog.Client) {
	state, err := client.State()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(hornlog.FormatState(state.Rules, state.Facts).String())
}

func runQuery(client *hornlog.Client, query string) {
	tree, err := client.Query(query)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(tree.String())
}

func runStatement(client *hornlog.Client, stmt string) {
	ack, err := client.Exec(stmt)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("ack:", ack)
}
