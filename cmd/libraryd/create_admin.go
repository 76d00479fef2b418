package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/oteladapters"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
)

var errPasswordsDiffer = errors.New("passwords do not match")

var adminFlags struct {
	name         string
	email        string
	universityID string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Creates an account with the admin role. Registration over HTTP only ever creates regular users.

The password is prompted for when stdin is a terminal, otherwise the first line of stdin is used.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		logger := oteladapters.NewSlogBridgeLoggerWithHandler(config.NewLogger(cfg, cmd.ErrOrStderr()).Handler())

		if cfg.MigrateOnStart {
			if err := sqlengine.MigrateUp(cfg.Dialect, cfg.DSN); err != nil {
				return err
			}
		}

		database, err := config.OpenDatabase(cmd.Context(), cfg, logger, sqlengine.WithContextualLogger(logger))
		if err != nil {
			return err
		}
		defer database.Close()

		handler, err := observable.NewCommandWrapper[registeruser.Command, librarystore.User](
			registeruser.NewCommandHandler(database.Store, auth.NewPasswordHasher(bcrypt.DefaultCost)),
			observable.WithContextualLogging(logger),
		)
		if err != nil {
			return err
		}

		admin, err := handler.Handle(cmd.Context(), registeruser.BuildAdminCommand(
			uuid.New(), adminFlags.name, adminFlags.email, password, adminFlags.universityID, time.Now(),
		))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s> with id %s\n", admin.Name, admin.Email, admin.ID)

		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.name, "name", "", "full name")
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "login email address")
	createAdminCmd.Flags().StringVar(&adminFlags.universityID, "university-id", "", "unique university id")

	for _, flag := range []string{"name", "email", "university-id"} {
		_ = createAdminCmd.MarkFlagRequired(flag)
	}
}

// readPassword prompts twice without echo on a terminal and reads one line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}

		fmt.Fprint(prompt, "Repeat password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}

		if string(first) != string(second) {
			return "", errPasswordsDiffer
		}

		return string(first), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
