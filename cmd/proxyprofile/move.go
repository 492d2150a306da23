package main

import (
	"context"
	"strconv"

	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <order>",
	Short: "Change the user order of a profile",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			logger.Log.Fatalf("Invalid profile id %q: %v", args[0], err)
		}
		order, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			logger.Log.Fatalf("Invalid order %q: %v", args[1], err)
		}

		_, database, store := openStore()
		defer db.Close(database)
		ctx := context.Background()

		p, err := store.GetProfile(ctx, id)
		if err != nil {
			logger.Log.Fatalf("Error loading profile: %v", err)
		}
		p.UserOrder = order
		if err := store.Update(ctx, p); err != nil {
			logger.Log.Fatalf("Error updating profile: %v", err)
		}
		logger.Log.Infof("Moved profile %d to order %d", id, order)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
