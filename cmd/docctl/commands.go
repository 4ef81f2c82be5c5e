package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/internal/database"
	"github.com/feichai0017/document-checklist/internal/repository"
	"github.com/feichai0017/document-checklist/pkg/converters"
)

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Administer the document checklist database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional .env file to load")

	root.AddCommand(
		newMigrateCmd(opts),
		newSessionCmd(opts),
		newDocumentsCmd(opts),
		newRemoteFilesCmd(opts),
	)
	return root
}

// withDB loads the configuration, opens the migrated database and runs fn.
func withDB(opts *rootOptions, fn func(db *gorm.DB) error) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	db, err := database.OpenMigrated(cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(opts, func(*gorm.DB) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
				return nil
			})
		},
	}
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session <session-id>",
		Short: "Print a processing session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(opts, func(db *gorm.DB) error {
				session, err := repository.NewSessionRepository(db).FindBySessionID(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("session %s: %w", args[0], err)
				}
				resp, err := converters.ToSessionResponse(session)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			})
		},
	}
}

func newDocumentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(opts, func(db *gorm.DB) error {
				docs, err := repository.NewDocumentRepository(db).List(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tSIZE\tPAGES\tREMOTE\tUPLOADED")
				for _, d := range docs {
					pages, remote := "-", "-"
					if d.PageCount != nil {
						pages = fmt.Sprint(*d.PageCount)
					}
					if d.HasRemoteReference() {
						remote = *d.RemoteFileID
					}
					fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
						d.ID, d.OriginalName, d.FileSize, pages, remote, d.CreatedAt.Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}
}

// newRemoteFilesCmd prints one provider file id per line, for cleanup scripts.
func newRemoteFilesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remote-files",
		Short: "List provider file ids referenced by stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(opts, func(db *gorm.DB) error {
				ids, err := repository.NewDocumentRepository(db).ListRemoteFileIDs(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
}
