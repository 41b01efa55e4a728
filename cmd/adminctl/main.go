// Command adminctl manages the storefront catalogue from a terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"perfumeadmin/internal/client"
)

// ---- token store ----

type tokenFile struct {
	AccessToken string `json:"access_token"`
	API         string `json:"api"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "perfumeadmin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "perfumeadmin")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok, api string) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: tok, API: api}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(tokenPath(), b, 0o600)
}

func loadToken() (tokenFile, error) {
	var tf tokenFile
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return tf, err
	}
	if err := json.Unmarshal(b, &tf); err != nil {
		return tf, err
	}
	if tf.AccessToken == "" {
		return tf, errors.New("no token (login required)")
	}
	return tf, nil
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage(out io.Writer) {
	fmt.Fprint(out, `usage: adminctl [-api URL] <command> [args]

commands:
  login -email E -password P
  logout
  products list [-category C] [-featured]
  products create -name N -description D -category C [-link L]... [-image PATH|URL]... [-coming-soon]
  products update <id> [-name N] [-description D] [-category C] [-links "L1, L2"]
                       [-image PATH|URL]... [-remove-image URL]... [-clear-images] [-coming-soon=true|false]
  products feature <id>
  products delete <id>
  blogs list
  blogs get <id>
  blogs create -title T -description D -image PATH|URL
  blogs update <id> [-title T] [-description D] [-image PATH|URL]
  blogs delete <id>
  users list
  users role <id> visitor|admin
  analytics [-csv]
`)
}

type cli struct {
	api      *client.API
	apiURL   string
	out      io.Writer
	notifier client.Notifier
}

func run(ctx context.Context, args []string, out io.Writer, logger *zap.Logger) error {
	global := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	global.SetOutput(out)
	apiURL := global.String("api", "", "API base URL, including /api")
	global.Usage = func() { usage(out) }
	if err := global.Parse(args); err != nil {
		return err
	}

	if global.NArg() < 1 {
		usage(out)
		return errors.New("missing command")
	}

	tf, _ := loadToken()
	base := *apiURL
	if base == "" {
		base = tf.API
	}
	if base == "" {
		base = "http://localhost:8080/api"
	}

	c := &cli{
		api:      client.NewAPI(base, nil),
		apiURL:   base,
		out:      out,
		notifier: client.LogNotifier{Logger: logger},
	}
	if tf.AccessToken != "" {
		c.api.SetToken(tf.AccessToken)
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		if err := os.Remove(tokenPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	case "products":
		return c.products(ctx, rest)
	case "blogs":
		return c.blogs(ctx, rest)
	case "users":
		return c.users(ctx, rest)
	case "analytics":
		return c.analytics(ctx, rest)
	case "help", "-h":
		usage(out)
		return nil
	}
	usage(out)
	return fmt.Errorf("unknown command %q", cmd)
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", os.Getenv("ADMINCTL_PASSWORD"), "password (or ADMINCTL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.api.Login(ctx, *email, *password)
	if err != nil {
		return errors.New(client.FailureMessage(err, "Login failed"))
	}
	if err := saveToken(resp.AccessToken, c.apiURL); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintf(c.out, "logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
	return nil
}

func (c *cli) analytics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analytics", flag.ContinueOnError)
	asCSV := fs.Bool("csv", false, "print the CSV export")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *asCSV {
		body, err := c.api.ExportAnalytics(ctx)
		if err != nil {
			return errors.New(client.FailureMessage(err, "Failed to export analytics"))
		}
		_, err = c.out.Write(body)
		return err
	}

	data, err := c.api.Analytics(ctx)
	if err != nil {
		return errors.New(client.FailureMessage(err, "Failed to fetch analytics"))
	}
	return printJSON(c.out, data)
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
