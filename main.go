package main

import "category-manager/cmd"

func main() {
	cmd.Execute()
}
