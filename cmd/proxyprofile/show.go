package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one profile with its share link and capabilities",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			logger.Log.Fatalf("Invalid profile id %q: %v", args[0], err)
		}

		cfg, database, store := openStore()
		defer db.Close(database)
		ctx := context.Background()
		settings := cfg.Settings.Snapshot()

		p, err := store.GetProfile(ctx, id)
		if err != nil {
			logger.Log.Fatalf("Error loading profile: %v", err)
		}

		link := "-"
		if uri, ok, err := p.ToURI(); err != nil {
			logger.Log.Warnf("Cannot render share link: %v", err)
		} else if ok {
			link = uri
		}

		route, err := p.SettingsRoute(false)
		if err != nil {
			logger.Log.Fatalf("Error resolving settings surface: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID:\t%d\n", p.ID)
		fmt.Fprintf(w, "Group:\t%d\n", p.GroupID)
		fmt.Fprintf(w, "Order:\t%d\n", p.UserOrder)
		fmt.Fprintf(w, "Type:\t%s\n", orDash(p.TypeLabel(settings)))
		fmt.Fprintf(w, "Name:\t%s\n", orDash(p.DisplayName()))
		fmt.Fprintf(w, "Address:\t%s\n", orDash(p.DisplayAddress(ctx, store)))
		fmt.Fprintf(w, "Traffic:\t↑ %s  ↓ %s\n", formatBytes(p.Tx), formatBytes(p.Rx))
		fmt.Fprintf(w, "Link:\t%s\n", link)
		fmt.Fprintf(w, "Settings:\t%s\n", route.Surface)
		fmt.Fprintln(w, "\t")
		fmt.Fprintf(w, "Needs external:\t%s\n", boolOrDash(p.NeedExternal(settings)))
		fmt.Fprintf(w, "Mux:\t%s\n", boolOrDash(p.NeedMux(settings)))
		fmt.Fprintf(w, "Core mux:\t%s\n", boolOrDash(p.NeedCoreMux(settings)))
		fmt.Fprintf(w, "Xray mux:\t%s\n", boolOrDash(p.NeedXrayMux(settings)))
		fmt.Fprintf(w, "Uses xray:\t%s\n", boolOrDash(p.UseXray()))
		fmt.Fprintf(w, "External shadowsocks:\t%s\n", boolOrDash(p.UseExternalShadowsocks(settings)))
		fmt.Fprintf(w, "Stream network:\t%s\n", boolOrDash(p.IsV2RayNetworkTCP()))
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
