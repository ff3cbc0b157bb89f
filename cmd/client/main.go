// Command client talks to a running Q&A server.
//
//	client [-a addr] [-t token] <command> [args]
//
// Commands: register <email>, login <email>, list [limit [offset]],
// get <id>, ask <title> <content> [tag...], answer <question-id> <content>,
// generate <question-id>, delete <id>, health.
//
// The session token is taken from -t or RUSH_TOKEN; login prints one.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/rush/internal/client"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/shared"
	"golang.org/x/term"
)

const requestTimeout = 15 * time.Second

var (
	readPassword = term.ReadPassword
	newClient    = func(addr string) (qaClient, error) { return client.NewGRPCClient(addr) }

	errUsage = errors.New("usage: client [-a addr] [-t token] <register|login|list|get|ask|answer|generate|delete|health> [args]")
)

type qaClient interface {
	SetToken(token string)
	Register(ctx context.Context, email, password string) (models.AccountID, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListQuestions(ctx context.Context, limit *int, offset int) ([]models.Question, error)
	GetQuestion(ctx context.Context, id models.QuestionID) (models.Question, error)
	AddQuestion(ctx context.Context, nq models.NewQuestion) (models.Question, error)
	DeleteQuestion(ctx context.Context, id models.QuestionID) error
	AddAnswer(ctx context.Context, na models.NewAnswer) (models.Answer, error)
	GenerateAnswer(ctx context.Context, questionID models.QuestionID) (models.Answer, error)
	Health(ctx context.Context) error
	Close() error
}

func password(w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	defer shared.WipeByteArray(pw)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func questionID(s string) (models.QuestionID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return models.QuestionID(id), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("a", "localhost:50051", "server address")
	token := fs.String("t", os.Getenv("RUSH_TOKEN"), "session token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}
	cmd, rest := rest[0], rest[1:]

	need := func(n int) error {
		if len(rest) < n {
			return fmt.Errorf("%s: %w", cmd, errUsage)
		}
		return nil
	}

	c, err := newClient(*addr)
	if err != nil {
		return err
	}
	defer c.Close()
	if *token != "" {
		c.SetToken(*token)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	switch cmd {
	case "register", "login":
		if err := need(1); err != nil {
			return err
		}
		pw, err := password(stderr)
		if err != nil {
			return err
		}
		if cmd == "register" {
			id, err := c.Register(ctx, rest[0], pw)
			if err != nil {
				return err
			}
			return printJSON(stdout, map[string]models.AccountID{"account_id": id})
		}
		t, err := c.Login(ctx, rest[0], pw)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, t)
		return err

	case "list":
		var limit *int
		offset := 0
		if len(rest) > 0 {
			n, err := strconv.Atoi(rest[0])
			if err != nil {
				return fmt.Errorf("invalid limit %q", rest[0])
			}
			limit = &n
		}
		if len(rest) > 1 {
			if offset, err = strconv.Atoi(rest[1]); err != nil {
				return fmt.Errorf("invalid offset %q", rest[1])
			}
		}
		qs, err := c.ListQuestions(ctx, limit, offset)
		if err != nil {
			return err
		}
		return printJSON(stdout, qs)

	case "get", "delete", "generate":
		if err := need(1); err != nil {
			return err
		}
		id, err := questionID(rest[0])
		if err != nil {
			return err
		}
		switch cmd {
		case "get":
			q, err := c.GetQuestion(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(stdout, q)
		case "delete":
			return c.DeleteQuestion(ctx, id)
		default:
			a, err := c.GenerateAnswer(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(stdout, a)
		}

	case "ask":
		if err := need(2); err != nil {
			return err
		}
		q, err := c.AddQuestion(ctx, models.NewQuestion{Title: rest[0], Content: rest[1], Tags: rest[2:]})
		if err != nil {
			return err
		}
		return printJSON(stdout, q)

	case "answer":
		if err := need(2); err != nil {
			return err
		}
		id, err := questionID(rest[0])
		if err != nil {
			return err
		}
		a, err := c.AddAnswer(ctx, models.NewAnswer{QuestionID: id, Content: rest[1]})
		if err != nil {
			return err
		}
		return printJSON(stdout, a)

	case "health":
		if err := c.Health(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(stdout, "SERVING")
		return err

	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}
