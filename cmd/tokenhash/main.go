// Command tokenhash prints the bcrypt hash to put into TRIGGER_TOKEN_HASH.
package main

import (
	"fmt"
	"os"
	tokenverifier "remindbot/internal/implementations/token_verifier"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: tokenhash <token>")
		os.Exit(2)
	}

	hash, err := tokenverifier.NewBcrypt("", bcrypt.DefaultCost).HashToken(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
