/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command towerd runs the authoritative tower-defense server or a headless
// client, selected by the "role" config key (TOWERD_ROLE / --config file),
// with an interactive status prompt.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/fatih/color"
	prmsdk "github.com/prometheus/client_golang/prometheus"
	spfcbr "github.com/spf13/cobra"

	libcfg "github/sabouaram/towerd/config"
	libgame "github/sabouaram/towerd/game"
	liblog "github/sabouaram/towerd/logger"
	libhost "github/sabouaram/towerd/network/host"
	libsession "github/sabouaram/towerd/network/session"
	libpacket "github/sabouaram/towerd/packet"
	libphysics "github/sabouaram/towerd/physics"
)

var cfgFile string

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *spfcbr.Command {
	cmd := &spfcbr.Command{
		Use:   "towerd",
		Short: "Authoritative tower-defense server and client",
		RunE:  runTowerd,
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "path to a towerd.yaml config file")
	return cmd
}

func runTowerd(_ *spfcbr.Command, _ []string) error {
	v := libcfg.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	cfg, err := libcfg.Load(v)
	if err != nil {
		return err
	}

	log := liblog.New(cfg.LogLevel, os.Stderr)
	reg := prmsdk.NewRegistry()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Role == "client" {
		return runClient(ctx, cfg, log, reg)
	}
	return runServer(ctx, cfg, log, reg)
}

func runServer(ctx context.Context, cfg libcfg.Config, log liblog.Logger, reg prmsdk.Registerer) error {
	h, err := libhost.Create(libhost.Config{
		Role:      libhost.RoleServer,
		BindAddr:  cfg.BindAddr,
		PeerCount: cfg.PeerCount,
	}, log)
	if err != nil {
		return err
	}
	defer h.Destroy()

	dispatch := libpacket.NewDispatcher()
	adapter := libsession.NewServerAdapter(h, dispatch, cfg.PeerCount)
	physicsMgr := libphysics.NewManager(cfg.PeerCount * 4)
	loop := libgame.NewServerLoop(adapter, dispatch, physicsMgr, libgame.WorldBounds{L: cfg.WorldL, W: cfg.WorldW}, log, reg)

	if err := loop.Start(ctx); err != nil {
		return err
	}
	defer loop.Stop(context.Background())

	log.Info("towerd server listening", liblog.Fields{"addr": h.LocalAddr()})
	runStatusPrompt(ctx, loop)
	return nil
}

func runClient(ctx context.Context, cfg libcfg.Config, log liblog.Logger, reg prmsdk.Registerer) error {
	h, err := libhost.Create(libhost.Config{
		Role:           libhost.RoleClient,
		ConnectAddr:    cfg.ConnectAddr,
		ConnectTimeout: cfg.ConnectTimeout.Time(),
	}, log)
	if err != nil {
		return err
	}
	defer h.Destroy()

	dispatch := libpacket.NewDispatcher()
	adapter := libsession.NewClientAdapter(h, dispatch)
	player := libgame.NewPlayer(0, "", libphysics.Vec2{}, libgame.InputRingCapacity)
	loop := libgame.NewClientLoop(adapter, dispatch, player, log, reg)

	if err := adapter.Connect(); err != nil {
		return err
	}
	if err := adapter.Send(0, libpacket.C2SPlayerJoinRequest{}, 0); err != nil {
		return err
	}

	log.Info("towerd client connected", liblog.Fields{"addr": cfg.ConnectAddr})
	<-ctx.Done()
	_ = loop
	return nil
}

// runStatusPrompt runs an interactive REPL on stdin: "status" prints a
// colored tick/TPS/CPU line, "stop" ends the process at once through
// os.Exit(0), so the callers' deferred loop.Stop and Destroy do not run. It
// returns as soon as ctx is cancelled by an OS signal; other input is ignored.
func runStatusPrompt(ctx context.Context, loop *libgame.ServerLoop) {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		executor := func(in string) {
			switch strings.TrimSpace(in) {
			case "status":
				printStatusLine(loop)
			case "stop":
				os.Exit(0)
			}
		}
		completer := func(d prompt.Document) []prompt.Suggest {
			return prompt.FilterHasPrefix([]prompt.Suggest{
				{Text: "status", Description: "print tick/TPS/CPU"},
				{Text: "stop", Description: "shut the server down"},
			}, d.GetWordBeforeCursor(), true)
		}
		prompt.New(executor, completer, prompt.OptionPrefix("towerd> ")).Run()
	}()

	select {
	case <-ctx.Done():
	case <-stopped:
	}
}

func printStatusLine(loop *libgame.ServerLoop) {
	snap := loop.Status.Load()
	tpsColor := color.New(color.FgGreen)
	if snap.TPS < libgame.ServerTargetTickrate*0.9 {
		tpsColor = color.New(color.FgYellow)
	}
	if snap.TPS < libgame.ServerTargetTickrate*0.5 {
		tpsColor = color.New(color.FgRed)
	}
	tpsColor.Printf("tick=%d tps=%.1f cpu=%.0f%% players=%d\n",
		snap.Tick, snap.TPS, snap.CPUUse*100, snap.PlayerCount)
}
