package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"
	"proxyprofile/internal/xray"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Print the xray outbounds of a profile as JSON",
	Long:  `Converts the profile into xray outbound configs. Chains expand into one outbound per member linked through proxySettings; the first outbound is the entry.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			logger.Log.Fatalf("Invalid profile id %q: %v", args[0], err)
		}

		cfg, database, store := openStore()
		defer db.Close(database)
		ctx := context.Background()

		p, err := store.GetProfile(ctx, id)
		if err != nil {
			logger.Log.Fatalf("Error loading profile: %v", err)
		}

		outbounds, err := xray.Outbounds(ctx, store, p, cfg.Settings.Snapshot())
		if err != nil {
			logger.Log.Fatalf("Error converting profile: %v", err)
		}

		data, err := json.MarshalIndent(map[string]interface{}{"outbounds": outbounds}, "", "  ")
		if err != nil {
			logger.Log.Fatalf("Error encoding outbounds: %v", err)
		}
		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
