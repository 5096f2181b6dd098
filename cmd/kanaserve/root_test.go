package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDict = ";; -*- coding: utf-8 -*-\nかんじ /漢字/幹事/\nかんがえ /考え/\nあめ /雨/飴/\n"

// writeConfig writes a YAML config pointing at a fresh dictionary.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	dict := filepath.Join(dir, "SKK-JISYO.test")
	require.NoError(t, os.WriteFile(dict, []byte(testDict), 0o644))

	cfg := filepath.Join(dir, "kanaserve.yaml")
	body := "dict:\n  path: " + dict + "\nlearning:\n  backend: memory\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))
	return cfg
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "", "convert", "kannji")
	require.NoError(t, err)
	assert.Equal(t, "かんじ\n", out)

	out, err = execute(t, "", "convert", "-k", "kannji")
	require.NoError(t, err)
	assert.Equal(t, "カンジ\n", out)
}

func TestConvertCommandStdin(t *testing.T) {
	out, err := execute(t, "ame\nkannji\n", "convert")
	require.NoError(t, err)
	assert.Equal(t, "あめ\nかんじ\n", out)
}

func TestConvertCommandBadMode(t *testing.T) {
	_, err := execute(t, "", "convert", "--mode", "romaji", "ame")
	assert.Error(t, err)
}

func TestSuggestCommand(t *testing.T) {
	out, err := execute(t, "", "suggest", "かんじ")
	require.NoError(t, err)
	assert.Equal(t, "漢字\n幹事\n", out)

	out, err = execute(t, "", "suggest", "--limit", "1", "今日カンジ")
	require.NoError(t, err)
	assert.Equal(t, "漢字\n", out)
}

func TestSuggestCommandPredict(t *testing.T) {
	out, err := execute(t, "", "suggest", "-p", "かん")
	require.NoError(t, err)
	assert.Equal(t, "かんがえ\nかんじ\n", out)
}

func TestSuggestCommandMissingDictionary(t *testing.T) {
	_, err := execute(t, "", "--dict", filepath.Join(t.TempDir(), "missing"), "suggest", "かんじ")
	assert.Error(t, err)
}

func TestCliCommand(t *testing.T) {
	out, err := execute(t, "kannji\n/1\n/q\n", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "かんじ")
	assert.Contains(t, out, "漢字")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
	assert.Contains(t, out, gh)
}
