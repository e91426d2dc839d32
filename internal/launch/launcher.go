// Package launch builds the argument vector and scratch directory a ready
// install.LaunchPlan needs to become a running Minecraft process, and
// spawns it.
package launch

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/quasar/launchpi/internal/auth"
	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/install"
	"github.com/quasar/launchpi/internal/rules"
)

const (
	launcherName    = "launchpi"
	launcherVersion = "1.0"
)

// Status reports launch progress to an embedder.
type Status struct {
	Step       string
	Message    string
	IsComplete bool
	Error      error
	LogLine    *LogLine
}

// LogLine is one line of streamed process output.
type LogLine struct {
	Text string
	Type string // "stdout" or "stderr"
}

// Options configures a single launch.
type Options struct {
	Plan    *install.LaunchPlan
	Session auth.Session // nil means offline

	Username           string // used when Session is nil
	UUID               string // used when Session is nil
	ResolutionWidth    int
	ResolutionHeight   int
	ServerAddress      string
	ServerPort         int
	DisableMultiplayer bool
	DisableChat        bool

	// BinDirFactory overrides the per-launch scratch directory. Defaults to
	// <work_dir>/bin/<uuid4>.
	BinDirFactory func() (string, error)

	// Runner overrides process execution. Defaults to spawning a child
	// process and waiting for it to exit.
	Runner func(ctx context.Context, argv []string, cwd string) error
}

// Launcher turns a ready LaunchPlan into a running process.
type Launcher struct {
	context *config.Context
	opts    *Options
	status  chan<- Status
}

// NewLauncher creates a Launcher bound to a Context and Options.
func NewLauncher(c *config.Context, opts *Options, status chan<- Status) *Launcher {
	return &Launcher{context: c, opts: opts, status: status}
}

func (l *Launcher) sendStatus(s Status) {
	if l.status != nil {
		select {
		case l.status <- s:
		default:
		}
	}
}

// Launch prepares the replacement table and argument vectors, extracts
// natives into a scratch directory, and runs the process, blocking until
// it exits.
func (l *Launcher) Launch(ctx context.Context) error {
	replacements := l.prepare()

	binDir, err := l.makeBinDir()
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(binDir)

	replacements["${natives_directory}"] = binDir

	if err := l.extractNatives(binDir); err != nil {
		return fmt.Errorf("extracting natives: %w", err)
	}

	jvmArgs := l.buildJVMArgs(replacements)
	gameArgs := l.buildGameArgs(replacements)

	argv := append([]string{l.opts.Plan.JVMExec}, jvmArgs...)
	argv = append(argv, l.opts.Plan.Meta.MainClass)
	argv = append(argv, gameArgs...)

	l.sendStatus(Status{Step: "launching", Message: "starting java process"})

	runner := l.opts.Runner
	if runner == nil {
		runner = l.defaultRunner
	}
	if err := runner(ctx, argv, l.context.WorkDir); err != nil {
		return fmt.Errorf("game process: %w", err)
	}

	l.sendStatus(Status{Step: "complete", IsComplete: true, Message: "game closed"})
	return nil
}

// prepare fills the replacement table per spec: session values take
// priority, falling back to the offline Options fields and finally to
// generated defaults.
func (l *Launcher) prepare() map[string]string {
	plan := l.opts.Plan
	session := l.opts.Session

	uuidHex := l.offlineUUIDHex()
	username := l.offlineUsername(uuidHex)
	accessToken := ""
	legacyToken := ""
	xuid := ""
	clientID := ""
	userType := ""

	if session != nil {
		username = session.Username()
		uuidHex = session.UUIDHex()
		accessToken = session.FormatTokenArgument(false)
		legacyToken = session.FormatTokenArgument(true)
		xuid = session.GetXUID()
		clientID = session.ClientID()
		userType = session.UserType()
	}

	r := map[string]string{
		"${auth_player_name}":  username,
		"${version_name}":      plan.Meta.ID,
		"${game_directory}":    l.context.WorkDir,
		"${assets_root}":       l.context.AssetsDir(),
		"${assets_index_name}": plan.AssetsIndexVersion,
		"${auth_uuid}":         uuidHex,
		"${auth_access_token}": accessToken,
		"${auth_session}":      legacyToken,
		"${auth_xuid}":         xuid,
		"${clientid}":          clientID,
		"${user_type}":         userType,
		"${version_type}":      string(plan.Meta.Type),
		"${game_assets}":       plan.AssetsVirtualDir,
		"${user_properties}":   "{}",
		"${launcher_name}":     launcherName,
		"${launcher_version}":  launcherVersion,
		"${classpath}":         strings.Join(plan.ClasspathLibs, classpathSeparator()),
	}

	if l.opts.ResolutionWidth > 0 && l.opts.ResolutionHeight > 0 {
		r["${resolution_width}"] = strconv.Itoa(l.opts.ResolutionWidth)
		r["${resolution_height}"] = strconv.Itoa(l.opts.ResolutionHeight)
	}

	return r
}

func (l *Launcher) offlineUsername(uuidHex string) string {
	name := l.opts.Username
	if name == "" {
		return uuidHex[:8]
	}
	if len(name) > 16 {
		return name[:16]
	}
	return name
}

func (l *Launcher) offlineUUIDHex() string {
	if l.opts.UUID != "" {
		return strings.ToLower(strings.ReplaceAll(l.opts.UUID, "-", ""))
	}
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func classpathSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// buildJVMArgs evaluates arguments.jvm if the version declares it, else
// falls back to the legacy built-in template.
func (l *Launcher) buildJVMArgs(replacements map[string]string) []string {
	plan := l.opts.Plan
	var args []string

	if plan.Meta.Arguments != nil && len(plan.Meta.Arguments.JVM) > 0 {
		args = rules.Interpret(plan.Meta.Arguments.JVM, map[string]bool{})
	} else {
		args = l.legacyJVMArgs()
	}

	args = substituteAll(args, replacements)

	if plan.LoggingArgument != "" {
		arg := strings.ReplaceAll(plan.LoggingArgument, "${path}", plan.LoggingFile)
		args = append(args, arg)
	}

	if plan.Meta.MainClass == "net.minecraft.launchwrapper.Launch" {
		args = append(args, "-Dminecraft.client.jar="+plan.VersionJAR)
	}

	return args
}

func (l *Launcher) legacyJVMArgs() []string {
	var args []string

	switch runtime.GOOS {
	case "darwin":
		args = append(args, "-XstartOnFirstThread")
	case "windows":
		args = append(args,
			"-XX:HeapDumpPath=MojangTricksIntelDriversForPerformance_javaw.exe_en-US.dmp",
			"-Dos.name=Windows 10",
			"-Dos.version=10.0",
		)
	}

	args = append(args,
		"-Djava.library.path=${natives_directory}",
		"-Dminecraft.launcher.brand=${launcher_name}",
		"-Dminecraft.launcher.version=${launcher_version}",
		"-cp", "${classpath}",
	)
	return args
}

// buildGameArgs builds arguments.game (or legacy minecraftArguments) and
// appends feature flags.
func (l *Launcher) buildGameArgs(replacements map[string]string) []string {
	plan := l.opts.Plan
	var args []string

	if plan.Meta.Arguments != nil && len(plan.Meta.Arguments.Game) > 0 {
		args = rules.Interpret(plan.Meta.Arguments.Game, map[string]bool{})
	} else if plan.Meta.MinecraftArguments != "" {
		args = strings.Fields(plan.Meta.MinecraftArguments)
	}

	args = substituteAll(args, replacements)

	if l.opts.DisableMultiplayer {
		args = append(args, "--disableMultiplayer")
	}
	if l.opts.DisableChat {
		args = append(args, "--disableChat")
	}
	if l.opts.ServerAddress != "" {
		args = append(args, "--server", l.opts.ServerAddress)
		if l.opts.ServerPort > 0 {
			args = append(args, "--port", strconv.Itoa(l.opts.ServerPort))
		}
	}

	return args
}

func substituteAll(args []string, replacements map[string]string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		for k, v := range replacements {
			a = strings.ReplaceAll(a, k, v)
		}
		out[i] = a
	}
	return out
}

func (l *Launcher) makeBinDir() (string, error) {
	if l.opts.BinDirFactory != nil {
		dir, err := l.opts.BinDirFactory()
		if err != nil {
			return "", err
		}
		return dir, os.MkdirAll(dir, 0o755)
	}

	dir := filepath.Join(l.context.BinDir(), uuid.New().String())
	return dir, os.MkdirAll(dir, 0o755)
}

// extractNatives unpacks every native_libs jar into dest, skipping entries
// whose name starts with META-INF or ends with .git or .sha1.
func (l *Launcher) extractNatives(dest string) error {
	for _, path := range l.opts.Plan.NativeLibs {
		if err := extractArchive(path, dest); err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}
	}
	return nil
}

func extractArchive(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !canExtractNative(f.Name) {
			continue
		}
		if err := extractZipEntry(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func canExtractNative(name string) bool {
	if strings.HasPrefix(name, "META-INF") {
		return false
	}
	if strings.HasSuffix(name, ".git") || strings.HasSuffix(name, ".sha1") {
		return false
	}
	return true
}

func extractZipEntry(f *zip.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(f.Name))
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (l *Launcher) defaultRunner(ctx context.Context, argv []string, cwd string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cwd

	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()

	if err := cmd.Start(); err != nil {
		return err
	}

	go l.streamLog(stdout, "stdout")
	go l.streamLog(stderr, "stderr")

	return cmd.Wait()
}

func (l *Launcher) streamLog(r io.Reader, kind string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l.sendStatus(Status{
			Step:    "launching",
			LogLine: &LogLine{Text: scanner.Text(), Type: kind},
		})
	}
}
