package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/Kwesikendy/academyos/core/routing"
	"github.com/Kwesikendy/academyos/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	store *session.Store
	gate  *routing.Gate
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL      - sign in (password prompted)")
	fmt.Fprintln(cli.out, "  register -email EMAIL -first NAME -last NAME [-role ROLE]")
	fmt.Fprintln(cli.out, "                          - create an account (password prompted twice)")
	fmt.Fprintln(cli.out, "  logout                  - sign out")
	fmt.Fprintln(cli.out, "  whoami                  - show the current identity")
	fmt.Fprintln(cli.out, "  menu                    - show the navigation for the current role")
	fmt.Fprintln(cli.out, "  open -path PATH         - show what the gate decides for PATH")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account email. The password will be prompted next.")

	registerCmd := flag.NewFlagSet("register", flag.ExitOnError)
	regEmail := registerCmd.String("email", "", "The account email. The password will be prompted next.")
	regFirst := registerCmd.String("first", "", "First name.")
	regLast := registerCmd.String("last", "", "Last name.")
	regRole := registerCmd.String("role", string(session.RoleStudent), "Account role: student, teacher, admin or parent.")

	openCmd := flag.NewFlagSet("open", flag.ExitOnError)
	openPath := openCmd.String("path", "", "The path to evaluate, e.g. /admin/users")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginEmail, string(pwd))
	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *regEmail == "" || *regFirst == "" || *regLast == "" {
			registerCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		fmt.Fprint(cli.out, "Confirm password:")
		confirm, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		return cli.register(ctx, session.NewAccount{
			FirstName:       *regFirst,
			LastName:        *regLast,
			Email:           *regEmail,
			Password:        string(pwd),
			PasswordConfirm: string(confirm),
			Role:            *regRole,
		})
	case "logout":
		cli.store.Logout(ctx)
		fmt.Fprintln(cli.out, "Signed out.")
		return nil
	case "whoami":
		return cli.whoami()
	case "menu":
		return cli.menu()
	case "open":
		if err := openCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *openPath == "" {
			openCmd.Usage()
			return errHelp
		}
		return cli.open(*openPath)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(ctx context.Context, email, pwd string) error {
	if err := cli.store.Login(ctx, session.Login{Email: email, Password: pwd}); err != nil {
		return err
	}
	snap := cli.store.Snapshot()
	fmt.Fprintf(cli.out, "Welcome back, %s (%s).\n", snap.Identity.FullName(), snap.Identity.Role)
	return nil
}

func (cli *commandLine) register(ctx context.Context, acct session.NewAccount) error {
	if err := cli.store.Register(ctx, acct); err != nil {
		return err
	}
	snap := cli.store.Snapshot()
	fmt.Fprintf(cli.out, "Account created. Welcome, %s (%s).\n", snap.Identity.FullName(), snap.Identity.Role)
	return nil
}

func (cli *commandLine) whoami() error {
	snap := cli.store.Snapshot()
	if !snap.Authenticated() {
		fmt.Fprintln(cli.out, "Not signed in.")
		return nil
	}
	ident := snap.Identity
	fmt.Fprintf(cli.out, "%s <%s> role=%s id=%s\n", ident.FullName(), ident.Email, ident.Role, ident.ID)
	return nil
}

func (cli *commandLine) menu() error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, entry := range routing.MenuFor(cli.store.Snapshot().Role()) {
		fmt.Fprintf(w, "%s\t%s\n", entry.Label, entry.Path)
	}
	return w.Flush()
}

func (cli *commandLine) open(path string) error {
	outcome := cli.gate.Evaluate(path)
	switch outcome.Decision {
	case routing.Allow:
		fmt.Fprintf(cli.out, "allowed: %s (%s)\n", path, outcome.Rule.Visibility)
	case routing.RedirectToLogin:
		fmt.Fprintf(cli.out, "sign in required; you would return to %s\n", outcome.ReturnTo)
	case routing.RedirectToUnauthorized:
		fmt.Fprintf(cli.out, "not allowed for role %q\n", cli.store.Snapshot().Role())
	default:
		fmt.Fprintln(cli.out, "session still resolving; try again")
	}
	return nil
}
