package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hr-helpdesk-be/pkg/store"
	"hr-helpdesk-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(app *cli.App, name string) *cli.Command {
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func TestIngestCommands(t *testing.T) {
	app := newApp()

	t.Run("build exposes force and url flags", func(t *testing.T) {
		cmd := findCommand(app, "build")
		require.NotNil(t, cmd)

		names := map[string]bool{}
		for _, f := range cmd.Flags {
			for _, n := range f.Names() {
				names[n] = true
			}
		}
		assert.True(t, names["force"])
		assert.True(t, names["f"])
		assert.True(t, names["url"])
	})

	t.Run("search defaults to five hits", func(t *testing.T) {
		cmd := findCommand(app, "search")
		require.NotNil(t, cmd)

		var top *cli.IntFlag
		for _, f := range cmd.Flags {
			if ff, ok := f.(*cli.IntFlag); ok && ff.Name == "top" {
				top = ff
			}
		}
		require.NotNil(t, top)
		assert.Equal(t, 5, top.Value)
	})

	t.Run("search without query fails before loading anything", func(t *testing.T) {
		err := newApp().Run([]string{"ingest", "search"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query argument is required")
	})
}

func TestLoadExisting(t *testing.T) {
	ctx := context.Background()

	t.Run("missing artifacts are reported, not built", func(t *testing.T) {
		dir := t.TempDir()
		_, err := loadExisting(ctx, vectorindex.NewFlatIndex(dir))
		assert.ErrorIs(t, err, errNoIndex)
		assert.False(t, vectorindex.NewFlatIndex(dir).Exists(ctx))
	})

	t.Run("persisted index is loaded", func(t *testing.T) {
		dir := t.TempDir()
		built := vectorindex.NewFlatIndex(dir)
		require.NoError(t, built.Build(ctx, [][]float32{{1, 0}, {0, 1}}, []store.Chunk{{ID: "a"}, {ID: "b"}}))
		require.NoError(t, built.Save(ctx))

		idx, err := loadExisting(ctx, vectorindex.NewFlatIndex(dir))
		require.NoError(t, err)
		assert.Equal(t, 2, idx.Len())
	})

	t.Run("corrupt artifacts surface the corruption", func(t *testing.T) {
		dir := t.TempDir()
		built := vectorindex.NewFlatIndex(dir)
		require.NoError(t, built.Build(ctx, [][]float32{{1, 0}}, []store.Chunk{{ID: "a"}}))
		require.NoError(t, built.Save(ctx))
		require.NoError(t, os.Remove(filepath.Join(dir, vectorindex.MetadataFile)))

		_, err := loadExisting(ctx, vectorindex.NewFlatIndex(dir))
		assert.ErrorIs(t, err, vectorindex.ErrIndexCorrupt)
	})
}
