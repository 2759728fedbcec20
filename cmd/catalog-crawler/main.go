package main

import "github.com/raushankrgupta/catalog-crawler/cmd/catalog-crawler/cmd"

func main() {
	cmd.Execute()
}
