// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"
	"io"

	progressbar "github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/common/process"
	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/export"
	"storj.io/nftmeta/private/prompt"
	"storj.io/nftmeta/shuffle"
)

// confirm asks question on the terminal unless --yes was given.
func confirm(cmd *cobra.Command, question string) error {
	if toolFlags.yes {
		return nil
	}
	ok, err := prompt.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question)
	if err != nil {
		return err
	}
	if !ok {
		return errs.New("aborted")
	}
	return nil
}

// newProgress returns a progress callback drawing a bar on w and a function
// finishing the bar.
func newProgress(w io.Writer, total int) (export.Progress, func()) {
	bar := progressbar.New(total).SetWriter(w).Start()
	return func(collection.TokenID) { bar.Increment() }, func() { bar.Finish() }
}

func cmdShuffle(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	peer, err := openPeer(ctx, log, runCfg, false)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, peer.Close()) }()

	first, last := toolFlags.min, toolFlags.max
	if last == 0 {
		last = runCfg.Collection.MaxTokenID
	}

	if err := confirm(cmd, fmt.Sprintf("Replace the shuffle mapping of tokens %d to %d?", first, last)); err != nil {
		return err
	}

	engine := shuffle.NewEngine(log.Named("shuffle"), peer.backend, runCfg.Collection.MaxTokenID, peer.resolver)
	if _, err := engine.Shuffle(ctx, first, last); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Shuffled tokens %d to %d.\n", first, last)
	return err
}

func cmdExportAssets(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	peer, err := openPeer(ctx, log, runCfg, false)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, peer.Close()) }()

	if err := confirm(cmd, "Remove every exported asset and export them again?"); err != nil {
		return err
	}

	pipeline := export.NewPipeline(log.Named("export"), peer.resolver, peer.backend, runCfg.Export)
	progress, done := newProgress(cmd.OutOrStdout(), runCfg.Collection.MaxTokenID)
	defer done()

	return pipeline.ExportAssets(ctx, progress)
}

func cmdExportMetadata(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	peer, err := openPeer(ctx, log, runCfg, false)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, peer.Close()) }()

	if err := confirm(cmd, "Remove every exported metadata document and export them again?"); err != nil {
		return err
	}

	pipeline := export.NewPipeline(log.Named("export"), peer.resolver, peer.backend, runCfg.Export)
	progress, done := newProgress(cmd.OutOrStdout(), runCfg.Collection.MaxTokenID)
	defer done()

	return pipeline.ExportMetadata(ctx, args[0], progress)
}

func cmdBuildAssets(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	peer, err := openPeer(ctx, log, runCfg, false)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, peer.Close()) }()

	if err := confirm(cmd, fmt.Sprintf("Replace the assets in %s?", args[0])); err != nil {
		return err
	}

	target, err := export.NewDirTarget(args[0], peer.backend, peer.backend.AssetsExtension())
	if err != nil {
		return err
	}

	pipeline := export.NewPipeline(log.Named("build"), peer.resolver, target, runCfg.Export)
	progress, done := newProgress(cmd.OutOrStdout(), runCfg.Collection.MaxTokenID)
	defer done()

	return pipeline.ExportAssets(ctx, progress)
}

func cmdBuildMetadata(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	peer, err := openPeer(ctx, log, runCfg, false)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, peer.Close()) }()

	uriPrefix, output := args[0], args[1]
	if err := confirm(cmd, fmt.Sprintf("Replace the metadata in %s?", output)); err != nil {
		return err
	}

	target, err := export.NewDirTarget(output, peer.backend, peer.backend.AssetsExtension())
	if err != nil {
		return err
	}

	pipeline := export.NewPipeline(log.Named("build"), peer.resolver, target, runCfg.Export)
	progress, done := newProgress(cmd.OutOrStdout(), runCfg.Collection.MaxTokenID)
	defer done()

	return pipeline.ExportMetadata(ctx, uriPrefix, progress)
}

func cmdTotalSupply(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	peer, err := openPeer(ctx, log, runCfg, true)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, peer.Close()) }()

	totalSupply, err := peer.supply.TotalSupply(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), totalSupply)
	return err
}
