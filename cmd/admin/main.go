package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/hypesale/internal/client/admin"
)

func main() {
	err := admin.Run(context.Background(), os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, admin.ErrUsage) {
		os.Exit(2)
	}
	os.Exit(1)
}
