package main

import (
	"context"
	"strconv"

	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"

	"github.com/spf13/cobra"
)

var deleteGroups []int64

var deleteCmd = &cobra.Command{
	Use:   "delete [ids...]",
	Short: "Delete profiles by id or by group",
	Long:  `Deletes the listed profile ids. With --group, every profile of the given groups is removed as well.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && len(deleteGroups) == 0 {
			logger.Log.Fatal("Nothing to delete: pass profile ids or --group.")
		}

		var ids []int64
		for _, a := range args {
			id, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				logger.Log.Fatalf("Invalid profile id %q: %v", a, err)
			}
			ids = append(ids, id)
		}

		_, database, store := openStore()
		defer db.Close(database)
		ctx := context.Background()

		var total int64
		if len(ids) > 0 {
			n, err := store.DeleteByIDs(ctx, ids)
			if err != nil {
				logger.Log.Fatalf("Error deleting profiles: %v", err)
			}
			total += n
		}
		if len(deleteGroups) > 0 {
			n, err := store.DeleteByGroup(ctx, deleteGroups...)
			if err != nil {
				logger.Log.Fatalf("Error deleting groups: %v", err)
			}
			total += n
		}
		logger.Log.Infof("🗑️  Deleted %d profiles.", total)
	},
}

func init() {
	deleteCmd.Flags().Int64SliceVar(&deleteGroups, "group", nil, "Delete every profile of these groups")
	rootCmd.AddCommand(deleteCmd)
}
