// Command elevatord generates elevator traffic datasets and serves
// them over REST, Swagger UI, and MCP.
package main

import "github.com/DavidNavarroSaiz/Elevator-data-generator/internal/cli"

func main() {
	cli.Execute()
}
