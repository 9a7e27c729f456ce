package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/staranto/tudsgo/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for tuds
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_tuds()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "dq diff get gq purge completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
    get)
      local opts="--cleaned --force --mirror --progress --root -r --tldr"
            ;;
        gq)
      local opts="$common --cleaned --edge-attrs --node-attrs --root -r"
            ;;
        dq)
      local opts="$common --root -r"
            ;;
        diff)
      local opts="--color -c --root -r --tldr"
            ;;
        purge)
            local opts="--hours --tldr"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  return 0
}

complete -F _tuds tuds
`

const zshCompletionScript = `#compdef tuds

_tuds() {
  local -a cmds
  cmds=(
    'dq:dataset cache query'
    'diff:diff canonical and cleaned variants'
    'get:download and cache a dataset'
    'gq:graph query'
    'purge:remove stale downloaded archives'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'tuds commands' cmds
    return
  fi

  case $words[2] in
    get)
      _arguments -C \
        '--cleaned[use the cleaned variant]' \
        '--force[rebuild processed artifacts]' \
        '--mirror[alternate base URL]:url' \
        '--progress[show a download meter]' \
        '(-r --root)'{-r,--root}'[dataset root]:directory:_directories' \
        '--tldr[show tldr page]' \
        '1:dataset name'
      ;;
    gq)
      _arguments -C \
        $common \
        '--cleaned[use the cleaned variant]' \
        '--edge-attrs[keep edge attribute channels]' \
        '--node-attrs[keep node attribute channels]' \
        '(-r --root)'{-r,--root}'[dataset root]:directory:_directories' \
        '1:dataset name'
      ;;
    dq)
      _arguments -C \
        $common \
        '(-r --root)'{-r,--root}'[dataset root]:directory:_directories'
      ;;
    diff)
      _arguments -C \
        '(-c --color)'{-c,--color}'[enable colored diff]' \
        '(-r --root)'{-r,--root}'[dataset root]:directory:_directories' \
        '--tldr[show tldr page]' \
        '1:dataset name'
      ;;
    purge)
      _arguments -C \
        '--hours[purge archives older than this many hours]:hours' \
        '--tldr[show tldr page]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _tuds tuds tudsgo
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: tuds completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "tuds completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
