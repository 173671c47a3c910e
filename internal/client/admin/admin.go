// Package admin implements the owner command line: it mints an access
// token with the server's signing secret and, optionally, performs one
// owner operation over gRPC with it.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/client/client"
	"github.com/dmitrijs2005/hypesale/internal/server/auth"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type caller interface {
	Call(ctx context.Context, method string, args map[string]any) (map[string]any, error)
	SetAccessToken(token string)
	Close() error
}

var dial = func(endpoint string) (caller, error) {
	return client.NewSaleClient(endpoint)
}

var ErrUsage = errors.New("usage")

const usage = `usage: hypesale-admin -o OWNER [-a SERVER] [-t TTL] COMMAND [ARG]

commands:
  token                        print an access token for OWNER
  status                       show owner, sale contract, pause flag and params
  pause | unpause
  blacklist ADDRESS | unblacklist ADDRESS
  deactivate ADDRESS
  set-sale ADDRESS
  transfer-ownership ADDRESS
  export [AFTER_SEQ]           upload the audit log to object storage
`

type command struct {
	method  string
	needArg bool
	build   func(arg string) (map[string]any, error)
}

func addressArg(arg string) (map[string]any, error) {
	a, err := addrx.Parse(arg)
	if err != nil {
		return nil, err
	}
	return map[string]any{"address": string(a)}, nil
}

func blacklistArg(flagValue bool) func(string) (map[string]any, error) {
	return func(arg string) (map[string]any, error) {
		m, err := addressArg(arg)
		if err != nil {
			return nil, err
		}
		m["blacklisted"] = flagValue
		return m, nil
	}
}

func noArgs(string) (map[string]any, error) { return map[string]any{}, nil }

var commands = map[string]command{
	"status":             {method: "Status", build: noArgs},
	"pause":              {method: "Pause", build: noArgs},
	"unpause":            {method: "Unpause", build: noArgs},
	"blacklist":          {method: "SetBlacklisted", needArg: true, build: blacklistArg(true)},
	"unblacklist":        {method: "SetBlacklisted", needArg: true, build: blacklistArg(false)},
	"deactivate":         {method: "DeactivateAccount", needArg: true, build: addressArg},
	"set-sale":           {method: "SetSaleContract", needArg: true, build: addressArg},
	"transfer-ownership": {method: "TransferOwnership", needArg: true, build: addressArg},
	"export": {method: "ExportAuditLog", build: func(arg string) (map[string]any, error) {
		if arg == "" {
			return map[string]any{}, nil
		}
		after, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("after_seq: %w", err)
		}
		return map[string]any{"after_seq": after}, nil
	}},
}

// Run executes one admin invocation. args excludes the program name.
func Run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hypesale-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	owner := fs.String("o", "", "owner address")
	server := fs.String("a", "localhost:50051", "gRPC server address")
	ttl := fs.Duration("t", 15*time.Minute, "token validity")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w\n%s", ErrUsage, err, usage)
	}

	rest := fs.Args()
	if len(rest) == 0 || *owner == "" {
		return fmt.Errorf("%w\n%s", ErrUsage, usage)
	}

	ownerAddr, err := addrx.Parse(*owner)
	if err != nil {
		return err
	}

	name, arg := rest[0], ""
	if len(rest) > 1 {
		arg = rest[1]
	}

	cmd, known := commands[name]
	switch {
	case name == "token":
	case !known:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, name, usage)
	case cmd.needArg && arg == "":
		return fmt.Errorf("%w: %s needs an address\n%s", ErrUsage, name, usage)
	}

	token, err := mintToken(out, ownerAddr, *ttl)
	if err != nil {
		return err
	}
	if name == "token" {
		_, err := fmt.Fprintln(out, token)
		return err
	}

	req, err := cmd.build(arg)
	if err != nil {
		return err
	}

	c, err := dial(*server)
	if err != nil {
		return err
	}
	defer c.Close()
	c.SetAccessToken(token)

	resp, err := c.Call(ctx, cmd.method, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func mintToken(out io.Writer, owner addrx.Address, ttl time.Duration) (string, error) {
	if _, err := fmt.Fprint(out, "Signing secret: "); err != nil {
		return "", err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	defer clear(secret)

	if len(secret) == 0 {
		return "", errors.New("empty signing secret")
	}
	return auth.GenerateToken(owner, secret, ttl)
}
