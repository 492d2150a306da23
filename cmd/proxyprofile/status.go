package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"
	"proxyprofile/internal/model"
	"proxyprofile/internal/profile"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database statistics",
	Long:  `Displays a dashboard of the current database state, including file sizes, group populations and type breakdowns.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Config & DB
		cfg, database, _ := openStore()
		defer db.Close(database)

		// 2. Gather Stats
		var totalProxies int64
		if err := database.Model(&model.ProxyEntity{}).Count(&totalProxies).Error; err != nil {
			logger.Log.Fatalf("Error counting profiles: %v", err)
		}

		// Disk Usage
		dbSize := getFileSize(cfg.Database.Path)
		walSize := getFileSize(cfg.Database.Path + "-wal")

		type GroupStat struct {
			GroupID int64
			Count   int
		}
		var groupStats []GroupStat
		database.Model(&model.ProxyEntity{}).
			Select("group_id, count(*) as count").
			Group("group_id").
			Order("group_id").
			Scan(&groupStats)

		type TypeStat struct {
			Type  int32
			Count int
		}
		var typeStats []TypeStat
		database.Model(&model.ProxyEntity{}).
			Select("type, count(*) as count").
			Group("type").
			Order("type").
			Scan(&typeStats)

		var traffic struct {
			Tx int64
			Rx int64
		}
		database.Model(&model.ProxyEntity{}).
			Select("COALESCE(SUM(tx), 0) as tx, COALESCE(SUM(rx), 0) as rx").
			Scan(&traffic)

		// 3. Print Dashboard
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		fmt.Println("\n📊 \033[1mPROXY PROFILE STATUS\033[0m")
		fmt.Println("────────────────────────────────────────")

		// System Section
		fmt.Fprintln(w, "\033[1;36m[ SYSTEM ]\033[0m\t")
		fmt.Fprintf(w, "  Database Path:\t%s\n", cfg.Database.Path)
		fmt.Fprintf(w, "  DB Size:\t%s\n", formatBytes(dbSize))
		if walSize > 0 {
			fmt.Fprintf(w, "  WAL Size:\t%s (pending checkpoint)\n", formatBytes(walSize))
		}
		fmt.Fprintf(w, "  Total Profiles:\t%d\n", totalProxies)
		fmt.Fprintf(w, "  Traffic:\t↑ %s  ↓ %s\n", formatBytes(traffic.Tx), formatBytes(traffic.Rx))
		fmt.Fprintln(w, "\t")

		// Group Section
		fmt.Fprintln(w, "\033[1;36m[ GROUPS ]\033[0m\t")
		if len(groupStats) == 0 {
			fmt.Fprintln(w, "  (No profiles stored)")
		} else {
			for _, g := range groupStats {
				fmt.Fprintf(w, "  Group %d:\t%d\n", g.GroupID, g.Count)
			}
		}
		fmt.Fprintln(w, "\t")

		// Inventory Section
		fmt.Fprintln(w, "\033[1;36m[ INVENTORY ]\033[0m\t")
		for _, t := range typeStats {
			fmt.Fprintf(w, "  %s:\t%d\n", profile.Kind(t.Type), t.Count)
		}

		w.Flush()
		fmt.Println("")
	},
}

// Helpers

func getFileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
