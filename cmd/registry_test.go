package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterAndApply(t *testing.T) {
	out := &bytes.Buffer{}
	probe := &cobra.Command{
		Use: "registry:probe",
		Run: func(c *cobra.Command, args []string) {
			out.WriteString("ok")
		},
	}
	Register(probe)
	Apply()

	var attached *cobra.Command
	for _, c := range rootCmd.Commands() {
		if c.Use == "registry:probe" {
			attached = c
			break
		}
	}
	if attached == nil {
		t.Fatal("registry:probe not attached to root after Apply")
	}
	attached.Run(attached, nil)
	if out.String() != "ok" {
		t.Errorf("output = %q, want ok", out.String())
	}
}
