package ghostmark

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ciTemplates maps a provider to its pipeline file and content.
var ciTemplates = map[string][2]string{
	"github": {".github/workflows/ghostmark.yml", `name: ghostmark
on: [push, pull_request]
jobs:
  invisible-chars:
    runs-on: ubuntu-latest
    permissions:
      security-events: write
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25'
      - run: go install github.com/varalys/ghostmark@latest
      - run: ghostmark scan --no-update-check --sarif > ghostmark.sarif
      - uses: github/codeql-action/upload-sarif@v3
        with:
          sarif_file: ghostmark.sarif
      - run: ghostmark scan --no-update-check --text --fail --fail-on medium
`},
	"gitlab": {".gitlab-ci.yml", `stages: [scan]
invisible-chars:
  stage: scan
  image: golang:1.25
  script:
    - go install github.com/varalys/ghostmark@latest
    - ghostmark scan --no-update-check --json | tee ghostmark-findings.json
    - ghostmark scan --no-update-check --text --fail --fail-on medium
  artifacts:
    when: always
    paths:
      - ghostmark-findings.json
`},
	"bitbucket": {"bitbucket-pipelines.yml", `pipelines:
  default:
    - step:
        name: ghostmark
        image: golang:1.25
        script:
          - go install github.com/varalys/ghostmark@latest
          - ghostmark scan --no-update-check --json | tee ghostmark-findings.json
          - ghostmark scan --no-update-check --text --fail --fail-on medium
        artifacts:
          - ghostmark-findings.json
`},
	"azure": {"azure-pipelines.yml", `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/varalys/ghostmark@latest
    ghostmark scan --no-update-check --sarif > ghostmark.sarif
    ghostmark scan --no-update-check --text --fail --fail-on medium
  displayName: 'ghostmark scan'
- publish: ghostmark.sarif
  artifact: ghostmark-sarif
  condition: succeededOrFailed()
`},
}

func init() {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}
	rootCmd.AddCommand(ci)

	var provider string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template for your provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl, ok := ciTemplates[provider]
			if !ok {
				return fmt.Errorf("unknown --provider %q. Supported: github, gitlab, bitbucket, azure", provider)
			}
			path, content := tpl[0], tpl[1]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | bitbucket | azure")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	if err := initCmd.MarkFlagRequired("provider"); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not mark --provider as required:", err)
	}
	ci.AddCommand(initCmd)
}
