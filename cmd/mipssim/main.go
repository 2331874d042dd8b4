// Command mipssim is the batch CLI entry point: load an assembly file,
// either run it to completion (or for a fixed number of steps), print its
// machine code, start the terminal debugger, or start the HTTP/WebSocket
// API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lookbusy1344/mips-sim/api"
	"github.com/lookbusy1344/mips-sim/config"
	"github.com/lookbusy1344/mips-sim/debugger"
	"github.com/lookbusy1344/mips-sim/orchestrator"
)

// Version is overridden at build time with -ldflags "-X main.Version=v1.2.3".
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		file        = flag.String("file", "", "Assembly source file to load")
		steps       = flag.Uint("steps", 0, "Number of instructions to execute (0 = run to completion)")
		configPath  = flag.String("config", "", "Path to a TOML config file (default: platform config directory)")
		convert     = flag.Bool("convert", false, "Print machine code for the file instead of running it")
		tuiMode     = flag.Bool("tui", false, "Start the interactive terminal debugger")
		apiServer   = flag.Bool("api-server", false, "Start the HTTP/WebSocket API server (no file required)")
		port        = flag.Int("port", 8080, "API server port (used with -api-server)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("mips-sim %s\n", Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	machine := orchestrator.NewMachine(cfg.Memory.BaseAddress, cfg.Memory.WordCount, cfg.Execution.TextBase)

	if *apiServer {
		runAPIServer(machine, *port)
		return
	}

	if *file == "" {
		printHelp()
		os.Exit(0)
	}

	source, err := os.ReadFile(*file) // #nosec G304 -- user-supplied path is the CLI's whole purpose
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	if *tuiMode {
		shell := debugger.NewShell(machine, string(source), cfg)
		if err := shell.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if errs := machine.Load(string(source)); errs != nil {
		fmt.Fprintln(os.Stderr, errs.Error())
	}

	if *convert {
		printMachineCode(machine)
		return
	}

	runSteps(machine, *steps)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func runSteps(machine *orchestrator.Machine, limit uint) {
	machine.SetCallbacks(nil, func(line string) { fmt.Println(line) })

	count := uint(0)
	for machine.State() == orchestrator.StateRunning {
		if limit != 0 && count >= limit {
			break
		}
		machine.Step()
		count++
	}

	fmt.Printf("\nFinal PC: 0x%08X\n", machine.ProgramCounter())
	for _, r := range machine.RegisterValues() {
		if r.Value != 0 {
			fmt.Printf("%-5s = 0x%08X\n", r.Name, r.Value)
		}
	}
}

func printMachineCode(machine *orchestrator.Machine) {
	for _, entry := range machine.Convert() {
		if entry.Err != nil {
			fmt.Printf("%-40s ; error: %v\n", entry.Source, entry.Err)
			continue
		}
		fmt.Printf("%-40s %s\n", entry.Source, entry.Encoded)
	}
}

func runAPIServer(machine *orchestrator.Machine, port int) {
	server := api.NewServer(machine, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	shutdown()
}

func printHelp() {
	fmt.Printf(`mips-sim %s

Usage: mipssim -file <path> [options]
       mipssim -api-server [-port N]

Options:
  -file PATH     Assembly source file to load
  -steps N       Number of instructions to execute (default: run to completion)
  -config PATH   Path to a TOML config file (default: platform config directory)
  -convert       Print machine code for the file instead of running it
  -tui           Start the interactive terminal debugger
  -api-server    Start the HTTP/WebSocket API server (no file required)
  -port N        API server port (default: 8080, used with -api-server)
  -version       Show version information
`, Version)
}
