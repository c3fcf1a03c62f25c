// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/meta"
)

const bashCompletionScript = `# bash completion for rosterq
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_rosterq()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "build diff fields filters generate inspect query serve completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"
    local records="--source -i --store --url --no-store"

    case "$cmd" in
        query)
            local opts="$common $records --count --limit -l --schema"
            ;;
        fields)
            local opts="$common"
            ;;
        filters)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "add rm set ls clear url import export" -- "$cur") )
                return 0
            fi
            local opts="--store --force --field --operator --value --append --format $common"
            ;;
        generate)
            local opts="--count -n --seed --out -O --tldr"
            ;;
        build)
            local opts="--attrs -a --source -i --store --url --tldr"
            ;;
        diff)
            local opts="$records --color -c --filter -f --key --omit --output -o --pick --right --tldr"
            ;;
        serve)
            local opts="--addr --source -i --tldr"
            ;;
        inspect)
            local opts="$records --expr -e --filter -f --tldr"
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

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml csv raw" -- "$cur") )
            return 0
            ;;
        --format)
            COMPREPLY=( $(compgen -W "json yaml hcl" -- "$cur") )
            return 0
            ;;
        --store|--source|-i|--out|-O)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _rosterq rosterq
`

const zshCompletionScript = `#compdef rosterq

_rosterq() {
  local -a cmds
  cmds=(
    'build:interactive filter builder'
    'diff:compare the results of two filter sets'
    'fields:list the filterable fields'
    'filters:manage the saved filters'
    'generate:write generated employee records'
    'inspect:evaluate expressions over the filtered records'
    'query:employee query'
    'serve:serve the records over a small HTTP API'
    'completion:generate shell completion script'
  )

  local -a common records
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml csv raw)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )
  records=(
  '(-i --source)'{-i,--source}'[records to query]:source:_files'
  '--store[saved filter file]:store:_files'
  '--url[take filters from a URL]:url'
  '--no-store[ignore the saved filters]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'rosterq commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    query)
      _arguments -C \
        $common \
        $records \
        '--count[print only the number of matches]' \
        '(-l --limit)'{-l,--limit}'[limit results]:limit' \
        '--schema[dump schema]'
      ;;
    fields)
      _arguments -C $common
      ;;
    filters)
      _arguments -C '1: :((add rm set ls clear url import export))' '*::arg:_files'
      ;;
    generate)
      _arguments -C \
        '(-n --count)'{-n,--count}'[number of records]:count' \
        '--seed[random seed]:seed' \
        '(-O --out)'{-O,--out}'[destination]:out:_files'
      ;;
    build)
      _arguments -C $records '(-a --attrs)'{-a,--attrs}'[attributes to show]:attrs'
      ;;
    diff)
      _arguments -C \
        $records \
        '(-f --filter)'{-f,--filter}'[filters added to the right side]:filters' \
        '--right[filter spec for the right side]:filters' \
        '--pick[choose filters to drop]' \
        '--omit[fields to leave out]:fields' \
        '--key[pairing field]:key' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json)'
      ;;
    serve)
      _arguments -C '--addr[listen address]:addr' '(-i --source)'{-i,--source}'[records to serve]:source:_files'
      ;;
    inspect)
      _arguments -C $records '(-e --expr)'{-e,--expr}'[expression]:expr' '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _rosterq rosterq
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(stdout(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout(cmd), zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(stdout(cmd), zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(stdout(cmd), bashCompletionScript)
		default:
			fmt.Fprintln(stderr(cmd), "usage: rosterq completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "rosterq completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
