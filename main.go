package main

import "github.com/huanfeng/apkhub-split/cmd"

func main() {
	cmd.Execute()
}
