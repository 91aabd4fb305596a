// Command migrate manages the database schema.
package main

import "github.com/pos/backend/cmd/migrate/cmd"

func main() {
	cmd.Execute()
}
