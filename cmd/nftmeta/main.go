// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/common/cfgstruct"
	"storj.io/common/fpath"
	"storj.io/common/process"
	"storj.io/nftmeta/server"
)

var (
	rootCmd = &cobra.Command{
		Use:   "nftmeta",
		Short: "NFT collection metadata publisher",
	}
	setupCmd = &cobra.Command{
		Use:         "setup",
		Short:       "Create config files",
		RunE:        cmdSetup,
		Annotations: map[string]string{"type": "setup"},
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Serve the collection metadata and assets over HTTP",
		RunE:  cmdRun,
	}
	shuffleCmd = &cobra.Command{
		Use:   "shuffle",
		Short: "Shuffle the token IDs between --min and --max",
		Args:  cobra.NoArgs,
		RunE:  cmdShuffle,
	}
	exportAssetsCmd = &cobra.Command{
		Use:   "export-assets",
		Short: "Export the assets of every token under their public IDs",
		Args:  cobra.NoArgs,
		RunE:  cmdExportAssets,
	}
	exportMetadataCmd = &cobra.Command{
		Use:   "export-metadata <uri-prefix>",
		Short: "Export the metadata of every token, pointing the images to <uri-prefix>",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdExportMetadata,
	}
	buildAssetsCmd = &cobra.Command{
		Use:   "build-assets <output-dir>",
		Short: "Write the assets of every token into a local directory",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdBuildAssets,
	}
	buildMetadataCmd = &cobra.Command{
		Use:   "build-metadata <uri-prefix> <output-dir>",
		Short: "Write the metadata of every token into a local directory",
		Args:  cobra.ExactArgs(2),
		RunE:  cmdBuildMetadata,
	}
	totalSupplyCmd = &cobra.Command{
		Use:   "total-supply",
		Short: "Print the current total supply of the collection",
		Args:  cobra.NoArgs,
		RunE:  cmdTotalSupply,
	}
	confDir string

	runCfg   Config
	setupCfg Config

	toolFlags struct {
		yes bool
		min int
		max int
	}
)

func cmdSetup(cmd *cobra.Command, args []string) (err error) {
	setupDir, err := filepath.Abs(confDir)
	if err != nil {
		return err
	}

	valid, _ := fpath.IsValidSetupDir(setupDir)
	if !valid {
		return fmt.Errorf("nftmeta configuration already exists (%v)", setupDir)
	}

	err = os.MkdirAll(setupDir, 0700)
	if err != nil {
		return err
	}

	if err := setupCfg.Collection.Verify(); err != nil {
		return errs.New("invalid collection configuration: %w", err)
	}

	return process.SaveConfig(cmd, filepath.Join(setupDir, "config.yaml"))
}

func cmdRun(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	peer, err := openPeer(ctx, log, runCfg, true)
	if err != nil {
		return errs.New("Error opening collection: %+v", err)
	}
	defer func() {
		err = errs.Combine(err, peer.Close())
	}()

	listener, err := net.Listen("tcp", runCfg.Server.Address)
	if err != nil {
		return errs.New("Error creating listener: %+v", err)
	}

	srv := server.New(log.Named("server"), listener, peer.resolver, peer.supply, runCfg.Server)
	defer func() {
		err = errs.Combine(err, srv.Close())
	}()

	return srv.Run(ctx)
}

func init() {
	defaultConfDir := fpath.ApplicationDir("storj", "nftmeta")
	cfgstruct.SetupFlag(zap.L(), rootCmd, &confDir, "config-dir", defaultConfDir, "main directory for nftmeta configuration")
	defaults := cfgstruct.DefaultsFlag(rootCmd)

	for _, cmd := range []*cobra.Command{shuffleCmd, exportAssetsCmd, exportMetadataCmd, buildAssetsCmd, buildMetadataCmd} {
		cmd.Flags().BoolVar(&toolFlags.yes, "yes", false, "do not ask for confirmation")
	}
	shuffleCmd.Flags().IntVar(&toolFlags.min, "min", 1, "first token ID of the shuffled range")
	shuffleCmd.Flags().IntVar(&toolFlags.max, "max", 0, "last token ID of the shuffled range, 0 means the max token ID")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(setupCmd)
	for _, cmd := range []*cobra.Command{shuffleCmd, exportAssetsCmd, exportMetadataCmd, buildAssetsCmd, buildMetadataCmd, totalSupplyCmd} {
		rootCmd.AddCommand(cmd)
		process.Bind(cmd, &runCfg, defaults, cfgstruct.ConfDir(confDir))
	}
	process.Bind(runCmd, &runCfg, defaults, cfgstruct.ConfDir(confDir))
	process.Bind(setupCmd, &setupCfg, defaults, cfgstruct.ConfDir(confDir), cfgstruct.SetupMode())
}

func main() {
	logger, _, _ := process.NewLogger("nftmeta")
	zap.ReplaceGlobals(logger)

	process.Exec(rootCmd)
}
