package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestNoExitInMain(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), NoExitInMain, "cmdtool", "shop/jobs")
}

func TestProjectAnalyzers(t *testing.T) {
	analyzers := projectAnalyzers()
	require.NoError(t, analysis.Validate(analyzers))

	names := make(map[string]bool, len(analyzers))
	for _, a := range analyzers {
		names[a.Name] = true
	}
	for _, want := range []string{"noexitinmain", "nohandlerbgctx", "nilness", "SA1019", "ST1005", "S1008", "QF1001"} {
		assert.True(t, names[want], want)
	}
	assert.False(t, names["ST1000"])
}
