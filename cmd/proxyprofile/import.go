package main

import (
	"context"
	"os"
	"strconv"

	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"
	"proxyprofile/internal/parser"
	"proxyprofile/internal/profile"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <groupId> <file>",
	Short: "Import share links from a text file into a group",
	Long:  `Extracts every share link found in the file, parses it and appends it to the group. Links already present in the group (ignoring remarks) are skipped.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		groupID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			logger.Log.Fatalf("Invalid group id %q: %v", args[0], err)
		}
		text, err := os.ReadFile(args[1])
		if err != nil {
			logger.Log.Fatalf("Error reading %s: %v", args[1], err)
		}

		_, database, store := openStore()
		defer db.Close(database)
		ctx := context.Background()

		links := parser.ExtractLinks(string(text))
		if len(links) == 0 {
			logger.Log.Warn("No share links found.")
			return
		}
		logger.Log.Infof("📥 Importing %d links into group %d...", len(links), groupID)

		existing, err := store.ByGroup(ctx, groupID)
		if err != nil {
			logger.Log.Fatalf("Error loading group: %v", err)
		}
		seen := make(map[string]bool)
		for _, p := range existing {
			b, err := p.Bean()
			if err != nil {
				continue
			}
			if id, err := parser.Identity(b); err == nil {
				seen[id] = true
			}
		}

		order, err := store.NextOrder(ctx, groupID)
		if err != nil {
			logger.Log.Fatalf("Error reading group order: %v", err)
		}

		bar := progressbar.NewOptions(len(links),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan]Importing...[reset]"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)

		var added, skipped, failed int
		for _, raw := range links {
			bar.Add(1)

			bean, err := parser.Parse(raw)
			if err != nil {
				logger.Log.Debugf("Skipping %s: %v", raw, err)
				failed++
				continue
			}
			id, err := parser.Identity(bean)
			if err != nil {
				failed++
				continue
			}
			if seen[id] {
				skipped++
				continue
			}

			p := profile.New(groupID, bean)
			p.UserOrder = order
			if err := store.Add(ctx, p); err != nil {
				logger.Log.Errorf("Error storing %s: %v", raw, err)
				failed++
				continue
			}
			seen[id] = true
			order++
			added++
		}
		bar.Finish()

		logger.Log.Infof("✅ Import finished. Added %d, skipped %d duplicates, %d failed.", added, skipped, failed)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
