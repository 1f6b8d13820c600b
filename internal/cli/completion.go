package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/nwtest/internal/output"
)

// cmdCompletion generates shell completion scripts.
func cmdCompletion(args []string) int {
	w := output.New()
	shell := ""
	alias := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage()
			return 0
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			w.ErrorPrefix("completion: --alias requires a value (--alias=<name>)")
			return 2
		case strings.HasPrefix(arg, "-"):
			w.ErrorPrefix("completion: unknown flag: %s", arg)
			printCompletionUsage()
			return 2
		default:
			if shell != "" {
				w.ErrorPrefix("completion: unexpected argument: %s", arg)
				return 2
			}
			shell = arg
		}
	}

	if shell == "" {
		w.ErrorPrefix("completion: shell required (bash, zsh, fish)")
		printCompletionUsage()
		return 2
	}

	cmdName := "nwtest"
	if alias != "" {
		cmdName = alias
	}

	switch shell {
	case "bash":
		fmt.Print(generateBashCompletion(cmdName))
	case "zsh":
		fmt.Print(generateZshCompletion(cmdName))
	case "fish":
		fmt.Print(generateFishCompletion(cmdName))
	default:
		w.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return 2
	}

	return 0
}

// printCompletionUsage prints the help text for the completion command.
func printCompletionUsage() {
	w := output.New()

	w.HelpTitle("nwtest completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("nwtest completion <shell> [--alias=<name>]")

	w.HelpSection("Arguments:")
	w.HelpFlag("<shell>", "Shell type: bash, zsh, or fish", helpFlagWidthShort)

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", helpFlagWidthGlobal)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthGlobal)

	w.HelpSection("Examples:")
	w.HelpExample("nwtest completion bash", "Generate bash completion")
	w.HelpExample("nwtest completion zsh", "Generate zsh completion")
	w.HelpExample("nwtest completion fish", "Generate fish completion")
	w.HelpExample("nwtest completion bash --alias=nwt", "Generate bash completion for alias 'nwt'")

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(nwtest completion bash)\"")
	w.Println("  Zsh:   eval \"$(nwtest completion zsh)\"")
	w.Println("  Fish:  nwtest completion fish | source")
	w.Println("")
}

// flagInfo describes a flag for completion scripts.
type flagInfo struct {
	name        string
	description string
	values      []string // fixed values, nil when free-form
	takesValue  bool
}

var globalFlagInfos = []flagInfo{
	{name: "--quiet", description: "Minimal output"},
	{name: "--verbose", description: "Maximum detail"},
	{name: "--help", description: "Show help"},
	{name: "--version", description: "Show version"},
}

var nwTestFlagInfos = []flagInfo{
	{name: "--output-path", description: "Build output directory", takesValue: true},
	{name: "--environment", description: "Build environment", takesValue: true, values: []string{"test", "development", "production"}},
	{name: "--mode", description: "Launcher list to run", takesValue: true, values: []string{"ci", "dev"}},
	{name: "--timeout", description: "NW.js timeout in seconds", takesValue: true},
}

func flagNames(infos []flagInfo) []string {
	names := make([]string, len(infos))
	for i, f := range infos {
		names[i] = f.name
		if f.takesValue {
			names[i] += "="
		}
	}
	return names
}

func generateBashCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_") + "_completions"

	var aliasNote string
	if cmdName == "nwtest" {
		aliasNote = `
# Alias support:
# If you use an alias (e.g., alias nwt="nwtest"), add completion for it:
#   complete -F _nwtest_completions nwt
# Or generate completion directly for your alias:
#   eval "$(nwtest completion bash --alias=nwt)"
`
	} else {
		aliasNote = fmt.Sprintf(`
# This completion is generated for the alias "%s"
# Make sure you have the alias defined: alias %s="nwtest"
`, cmdName, cmdName)
	}

	// _init_completion -n =: keeps nw:test and --flag=value in one word.
	return fmt.Sprintf(`# nwtest bash completion
# Add to ~/.bashrc: eval "$(nwtest completion bash)"
%s
%s() {
    local cur prev words cword
    _init_completion -n =: || return

    local commands="%s"
    local flags="%s"
    local test_flags="%s"
    local config_subcommands="validate"
    local completion_shells="bash zsh fish"

    case "${prev}" in
        config)
            COMPREPLY=($(compgen -W "${config_subcommands}" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "${completion_shells}" -- "${cur}"))
            return
            ;;
        test-summary)
            _filedir
            return
            ;;
    esac

    case "${cur}" in
        --mode=*)
            COMPREPLY=($(compgen -W "ci dev" -- "${cur#--mode=}"))
            return
            ;;
        --output-path=*)
            cur="${cur#--output-path=}"
            _filedir -d
            return
            ;;
    esac

    local word
    for word in "${words[@]:1:cword-1}"; do
        if [[ "${word}" == "nw:test" || "${word}" == "test" ]]; then
            COMPREPLY=($(compgen -W "${test_flags} ${flags}" -- "${cur}"))
            [[ ${COMPREPLY[0]} == *= ]] && compopt -o nospace
            return
        fi
    done

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi

    COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
    __ltrim_colon_completions "${cur}"
}

complete -F %s %s
`, aliasNote, funcName,
		strings.Join(append(commandNames(), "test"), " "),
		strings.Join(flagNames(globalFlagInfos), " "),
		strings.Join(flagNames(nwTestFlagInfos), " "),
		funcName, cmdName)
}

// zshEscape escapes colons, which separate names from descriptions in
// _describe specs.
func zshEscape(s string) string {
	return strings.ReplaceAll(s, ":", `\:`)
}

func zshFlagSpec(f flagInfo) string {
	if !f.takesValue {
		return fmt.Sprintf("'%s[%s]'", f.name, f.description)
	}
	action := ":value:"
	switch {
	case len(f.values) > 0:
		action = fmt.Sprintf(":value:(%s)", strings.Join(f.values, " "))
	case f.name == "--output-path":
		action = ":directory:_directories"
	}
	return fmt.Sprintf("'%s=[%s]%s'", f.name, f.description, action)
}

func generateZshCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_")

	var aliasNote string
	if cmdName == "nwtest" {
		aliasNote = `
# Alias support:
# If you use an alias (e.g., alias nwt="nwtest"), add completion for it:
#   compdef _nwtest nwt
# Or generate completion directly for your alias:
#   eval "$(nwtest completion zsh --alias=nwt)"
`
	} else {
		aliasNote = fmt.Sprintf(`
# This completion is generated for the alias "%s"
# Make sure you have the alias defined: alias %s="nwtest"
`, cmdName, cmdName)
	}

	var commands, flags, testFlags strings.Builder
	for _, c := range builtinCommands {
		fmt.Fprintf(&commands, "        '%s:%s'\n", zshEscape(c.name), c.description)
	}
	fmt.Fprintf(&commands, "        'test:Alias for nw\\:test'\n")
	for _, f := range globalFlagInfos {
		fmt.Fprintf(&flags, "        %s\n", zshFlagSpec(f))
	}
	for _, f := range nwTestFlagInfos {
		fmt.Fprintf(&testFlags, "        %s\n", zshFlagSpec(f))
	}

	return fmt.Sprintf(`#compdef %s
# nwtest zsh completion
# Add to ~/.zshrc: eval "$(nwtest completion zsh)"
%s
%s() {
    local -a commands flags test_flags config_subcommands completion_shells

    commands=(
%s    )

    flags=(
%s    )

    test_flags=(
%s    )

    config_subcommands=(
        'validate:Validate configuration'
    )

    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    local cur_pos=$((CURRENT - 1))

    if (( cur_pos == 1 )); then
        _describe -t commands 'command' commands
        _arguments -s $flags[@]
        return
    fi

    case "${words[2]}" in
        nw:test|test)
            _arguments -s $test_flags[@] $flags[@]
            ;;
        test-summary)
            _files
            ;;
        config)
            _describe -t config-subcommands 'config subcommand' config_subcommands
            ;;
        completion)
            _describe -t shells 'shell' completion_shells
            ;;
        *)
            _arguments -s $flags[@]
            ;;
    esac
}

compdef %s %s
`, cmdName, aliasNote, funcName, commands.String(), flags.String(), testFlags.String(), funcName, cmdName)
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder

	var aliasNote string
	if cmdName == "nwtest" {
		aliasNote = `# Alias support:
# If you use an alias (e.g., alias nwt="nwtest"), add completion for it:
#   complete -c nwt -w nwtest
# Or generate completion directly for your alias:
#   nwtest completion fish --alias=nwt | source
`
	} else {
		aliasNote = fmt.Sprintf(`# This completion is generated for the alias "%s"
# Make sure you have the alias defined: alias %s="nwtest"
`, cmdName, cmdName)
	}

	sb.WriteString(fmt.Sprintf(`# nwtest fish completion
# Add to config: nwtest completion fish | source

%s
# Disable file completion by default
complete -c %s -f

`, aliasNote, cmdName))

	for _, c := range builtinCommands {
		sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_use_subcommand' -a '%s' -d '%s'\n", cmdName, c.name, c.description))
	}
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_use_subcommand' -a 'test' -d 'Alias for nw:test'\n", cmdName))

	sb.WriteString("\n# Global flags\n")
	for _, f := range globalFlagInfos {
		sb.WriteString(fmt.Sprintf("complete -c %s -l %s -d '%s'\n", cmdName, strings.TrimPrefix(f.name, "--"), f.description))
	}

	sb.WriteString("\n# nw:test flags\n")
	for _, f := range nwTestFlagInfos {
		line := fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from nw:test test' -l %s -d '%s'",
			cmdName, strings.TrimPrefix(f.name, "--"), f.description)
		switch {
		case len(f.values) > 0:
			line += fmt.Sprintf(" -xa '%s'", strings.Join(f.values, " "))
		case f.name == "--output-path":
			line += " -r -F"
		case f.takesValue:
			line += " -x"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n# test-summary reads a TAP file\n")
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from test-summary' -F\n", cmdName))

	sb.WriteString("\n# config subcommands\n")
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from config' -a 'validate' -d 'Validate configuration'\n", cmdName))

	sb.WriteString("\n# completion subcommands\n")
	for _, shell := range []string{"bash", "zsh", "fish"} {
		sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from completion' -a '%s' -d 'Generate %s completion'\n", cmdName, shell, shell))
	}

	return sb.String()
}
