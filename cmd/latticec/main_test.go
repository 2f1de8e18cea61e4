package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latticelang/latticec/internal/config"
)

func TestParseOptLevelFlagReadsDashOOption(t *testing.T) {
	assert.Equal(t, 2, parseOptLevelFlag([]string{"-O2"}, 0))
	assert.Equal(t, 0, parseOptLevelFlag([]string{"-emit=ir"}, 0))
}

func TestParseEmitFlagReadsEmitOption(t *testing.T) {
	assert.Equal(t, config.EmitIR, parseEmitFlag([]string{"-O1", "-emit=ir"}, config.EmitNone))
	assert.Equal(t, config.EmitNone, parseEmitFlag([]string{"-O1"}, config.EmitNone))
}

func TestParseBackendFlagReadsTargetAddress(t *testing.T) {
	assert.Equal(t, "localhost:9090", parseBackendFlag([]string{"--backend", "localhost:9090"}))
	assert.Equal(t, "", parseBackendFlag([]string{"--backend"}))
	assert.Equal(t, "", parseBackendFlag(nil))
}
