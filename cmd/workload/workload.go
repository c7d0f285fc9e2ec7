package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/vilterp/hornlog/pkg"
)

var load = flag.Bool("load", true, "load ancestry rules before inserting")
var url = flag.String("url", "ws://localhost:9000/ws", "url of hornlog server to connect to")
var numChains = flag.Int("numChains", 5, "number of parent chains to insert")
var chainLength = flag.Int("chainLength", 20, "people per parent chain")

var ruleStmts = []string{
	`parent(X, Y) => ancestor(X, Y).`,
	`parent(X, Y), ancestor(Y, Z) => ancestor(X, Z).`,
}

func main() {
	flag.Parse()

	client, err := hornlog.NewClient(*url)
	if err != nil {
		log.Fatal(err)
	}

	// Load rules.
	if *load {
		log.Println("loading rules")
		for _, stmt := range ruleStmts {
			log.Println(stmt)
			if _, err := client.Exec(stmt); err != nil {
				log.Fatal(err)
			}
		}
	}

	// Insert parent chains.
	log.Println("inserting parent chains")
	for chain := 0; chain < *numChains; chain++ {
		people := make([]string, *chainLength)
		for i := range people {
			people[i] = freshPerson()
		}
		for i := 0; i+1 < len(people); i++ {
			stmt := fmt.Sprintf("parent(%s, %s).", people[i], people[i+1])
			if _, err := client.Exec(stmt); err != nil {
				log.Fatal(err)
			}
		}

		// Query the longest derivation in the chain.
		query := fmt.Sprintf("ancestor(%s, %s)?", people[0], people[len(people)-1])
		tree, err := client.Query(query)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("chain %d: proof of depth %d", chain, treeDepth(tree))
	}
}

// freshPerson returns a unique constant name. The "p-" prefix keeps it a
// valid identifier even when the uuid starts with a digit.
func freshPerson() string {
	return "p-" + strings.ToLower(uuid.New().String())
}

func treeDepth(tree *hornlog.DerivationTree) int {
	max := 0
	for _, child := range tree.Children {
		if d := treeDepth(child); d > max {
			max = d
		}
	}
	return max + 1
}
