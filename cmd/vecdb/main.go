// Package main provides the vecdb CLI.
//
// Usage:
//
//	vecdb [--config FILE] <command> [args]
//
// Commands:
//
//	stats       - describe index statistics
//	query       - nearest neighbour query by vector or text
//	upsert      - write records from a JSON or YAML file
//	delete      - delete records by id
//	delete-all  - delete every record in a namespace
//	enqueue     - publish an upsert command to Kafka
//	serve       - run the HTTP gateway and the Kafka consumer
//
// Secrets may come from the environment or a .env file:
// PINECONE_API_KEY, PINECONE_INDEX, PINECONE_INDEX_HOST, OPENAI_API_KEY.
package main

import (
	"fmt"
	"os"

	"github.com/Zereker/vecdb/cmd/vecdb/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
