package main

import "github.com/lu-zhengda/triagemail/internal/cli"

func main() {
	cli.Execute()
}
