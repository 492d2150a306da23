package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"
	"proxyprofile/internal/profile"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <groupId>",
	Short: "List the profiles of a group in user order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		groupID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			logger.Log.Fatalf("Invalid group id %q: %v", args[0], err)
		}

		cfg, database, store := openStore()
		defer db.Close(database)
		ctx := context.Background()
		settings := cfg.Settings.Snapshot()

		profiles, err := store.ByGroup(ctx, groupID)
		if err != nil {
			logger.Log.Fatalf("Error listing group: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tORDER\tTYPE\tNAME\tADDRESS\tEXTERNAL\tMUX")
		for _, p := range profiles {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
				p.ID,
				p.UserOrder,
				orDash(p.TypeLabel(settings)),
				orDash(p.DisplayName()),
				orDash(p.DisplayAddress(ctx, store)),
				boolOrDash(p.NeedExternal(settings)),
				boolOrDash(p.NeedMux(settings)),
			)
		}
		w.Flush()
	},
}

// orDash renders a failed query as "-" after logging why.
func orDash(s string, err error) string {
	if err != nil {
		logQueryError(err)
		return "-"
	}
	return s
}

func boolOrDash(b bool, err error) string {
	if err != nil {
		logQueryError(err)
		return "-"
	}
	if b {
		return "yes"
	}
	return "no"
}

// logQueryError reports a desynchronized record loudly. Queries that are
// merely undefined for the kind stay at debug.
func logQueryError(err error) {
	if errors.Is(err, profile.ErrInvalidState) || errors.Is(err, profile.ErrInvalidArgument) {
		logger.Log.Errorf("Query failed: %v", err)
		return
	}
	logger.Log.Debugf("Query failed: %v", err)
}

func init() {
	rootCmd.AddCommand(listCmd)
}
