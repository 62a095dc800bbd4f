// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// rst parses reStructuredText files and renders them.
//
// Usage:
//
//	rst html [input] [-o output]
//	rst tree [input]
//
// If no input file is given, input is read from standard input.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
	"zombiezen.com/go/rst"
)

func main() {
	var (
		smilies    bool
		raw        bool
		markdown   bool
		skipPounds bool
	)
	options := func() rst.Options {
		var o rst.Options
		if smilies {
			o |= rst.SupportSmilies
		}
		if raw {
			o |= rst.SupportRawDirective
		}
		if markdown {
			o |= rst.SupportMarkdown
		}
		if skipPounds {
			o |= rst.SkipPounds
		}
		return o
	}

	parseInput := func(args []string) (*rst.Node, error) {
		src := os.Stdin
		filename := "<stdin>"
		if len(args) != 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return nil, err
			}
			defer f.Close()
			src = f
			filename = args[0]
		}
		text, err := io.ReadAll(src)
		if err != nil {
			return nil, err
		}
		doc, _, err := rst.Parse(string(text), filename, 0, 0, options(), nil, rst.NewMsgHandler(os.Stderr))
		return doc, err
	}

	rootCmd := &cobra.Command{
		Use:   "rst",
		Short: "parse and render reStructuredText files",
	}
	rootCmd.PersistentFlags().BoolVar(&smilies, "smilies", false, "recognize smileys")
	rootCmd.PersistentFlags().BoolVar(&raw, "raw", false, "honor the raw directive (unsafe for untrusted input)")
	rootCmd.PersistentFlags().BoolVar(&markdown, "markdown", false, "enable fenced code blocks")
	rootCmd.PersistentFlags().BoolVar(&skipPounds, "skip-pounds", false, "strip leading # comment leaders")

	var outputFile string
	var style string
	htmlCmd := &cobra.Command{
		Use:   "html [input] [-o output]",
		Short: "render a reStructuredText file as HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseInput(args)
			if err != nil {
				return err
			}
			out := os.Stdout
			if outputFile != "" {
				out, err = os.Create(outputFile)
				if err != nil {
					return err
				}
				defer out.Close()
			}
			r := &rst.HTMLRenderer{HighlightStyle: style}
			return r.Render(out, doc)
		},
	}
	htmlCmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of the output file")
	htmlCmd.Flags().StringVar(&style, "style", "", "chroma highlight style for code blocks")

	treeCmd := &cobra.Command{
		Use:   "tree [input]",
		Short: "parse a reStructuredText file and dump its document tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseInput(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), litter.Sdump(doc))
			return nil
		},
	}

	rootCmd.AddCommand(htmlCmd, treeCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
