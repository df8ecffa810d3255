package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioroute/internal/domain"
	"bioroute/internal/engine"
)

func TestDefault(t *testing.T) {
	snap, err := Default()
	require.NoError(t, err)

	c := snap.Catalog
	assert.Equal(t, EmbeddedSource, snap.Source)
	assert.Equal(t, 29, c.Len())
	assert.Len(t, snap.Templates, 4)

	t.Run("carries the reference defaults", func(t *testing.T) {
		vinasse, ok := c.Lookup("vinasse")
		require.True(t, ok)
		assert.Equal(t, domain.CategoryFeedstock, vinasse.Category)
		assert.Equal(t, 25.0, vinasse.Defaults["cod"])

		membrane, ok := c.Lookup("membrane")
		require.True(t, ok)
		assert.Equal(t, 0.96, membrane.Defaults["recovery"])

		flare, ok := c.Lookup("flare")
		require.True(t, ok)
		assert.Equal(t, 0.0, flare.Defaults["therm_eff"])
	})

	t.Run("groups technologies by category", func(t *testing.T) {
		g := c.Grouped()
		assert.Len(t, g[domain.CategoryFeedstock], 5)
		assert.Len(t, g[domain.CategoryDigester], 5)
		assert.Len(t, g[domain.CategoryUpgrading], 5)
		assert.Len(t, g[domain.CategoryEndUse], 8)
	})

	t.Run("every template calculates", func(t *testing.T) {
		eng := engine.New()
		for _, tpl := range snap.Templates {
			res, err := eng.Calculate(c, tpl.Route())
			require.NoError(t, err, tpl.ID)
			assert.NotEmpty(t, res.NodeDetails, tpl.ID)
		}
	})

	t.Run("standard mill template matches hand calculation", func(t *testing.T) {
		tpl, ok := snap.Template("usina-padrao")
		require.True(t, ok)

		res, err := engine.New().Calculate(c, tpl.Route())
		require.NoError(t, err)
		assert.InDelta(t, 7000.0, res.Summary.MethaneNm3Day, 1e-9)
		assert.InDelta(t, 7000*9.97*0.40/1000, res.Summary.ElectricityMWhDay, 1e-9)
	})
}

func TestParse(t *testing.T) {
	t.Run("rejects documents without version", func(t *testing.T) {
		_, err := Parse([]byte("technologies: []\n"))
		assert.Error(t, err)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := Parse([]byte("version: 1.0.0\ntechnologies:\n- id: x\n  category: feedstock\n  colour: red\n"))
		assert.Error(t, err)
	})

	t.Run("rejects technologies without category", func(t *testing.T) {
		_, err := Parse([]byte("version: 1.0.0\ntechnologies:\n- id: x\n"))
		assert.Error(t, err)
	})
}

func TestParseTemplates(t *testing.T) {
	c, err := Parse([]byte("version: 1.0.0\ntechnologies:\n- id: vinasse\n  category: feedstock\n"))
	require.NoError(t, err)

	t.Run("rejects unknown technologies", func(t *testing.T) {
		doc := "templates:\n- id: t1\n  nodes:\n  - node_id: a\n    tech_id: uasb\n"
		_, err := ParseTemplates([]byte(doc), c)
		assert.ErrorContains(t, err, "uasb")
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		doc := "templates:\n- id: t1\n- id: t1\n"
		_, err := ParseTemplates([]byte(doc), c)
		assert.Error(t, err)
	})
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		constraint string
		wantErr    bool
	}{
		{"empty constraint accepts", "1.2.0", "", false},
		{"range accepts", "1.2.0", ">=1.0.0 <2.0.0", false},
		{"range rejects major bump", "2.0.0", ">=1.0.0 <2.0.0", true},
		{"invalid version", "latest", "", true},
		{"invalid constraint", "1.0.0", "not a range", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersion(tt.version, tt.constraint)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "technologies.yaml")
	write := func(version string, recovery string) {
		doc := "version: " + version + "\ntechnologies:\n" +
			"- id: vinasse\n  category: feedstock\n" +
			"- id: membrane\n  category: upgrading\n  defaults:\n    recovery: " + recovery + "\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	}
	write("1.0.0", "0.96")

	// templates stay embedded and reference technologies missing here
	tplPath := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(tplPath, []byte("templates: []\n"), 0o644))

	store, err := NewStore(Options{TechnologiesPath: path, TemplatesPath: tplPath, VersionConstraint: "^1.0.0"})
	require.NoError(t, err)

	var calls int
	store.OnReload(func(*Snapshot, error) { calls++ })

	t.Run("swaps in a valid document", func(t *testing.T) {
		before := store.Current()
		write("1.1.0", "0.90")
		require.NoError(t, store.Reload())

		tech, _ := store.Current().Catalog.Lookup("membrane")
		assert.Equal(t, 0.90, tech.Defaults["recovery"])
		assert.NotEqual(t, before.Digest, store.Current().Digest)
		assert.Equal(t, "1.1.0", store.Current().Catalog.Version())

		old, _ := before.Catalog.Lookup("membrane")
		assert.Equal(t, 0.96, old.Defaults["recovery"])
	})

	t.Run("keeps the previous snapshot when the constraint fails", func(t *testing.T) {
		write("2.0.0", "0.50")
		assert.Error(t, store.Reload())
		assert.Equal(t, "1.1.0", store.Current().Catalog.Version())
	})

	t.Run("keeps the previous snapshot on parse errors", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("version: [\n"), 0o644))
		assert.Error(t, store.Reload())
		assert.Equal(t, "1.1.0", store.Current().Catalog.Version())
	})

	assert.Equal(t, 3, calls)
}

func TestSnapshotDigest(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Len(t, a.Digest, 64)
	assert.Equal(t, a.Digest, b.Digest)

	edited := bytes.Replace(defaultTechnologies, []byte("cod: 25"), []byte("cod: 10"), 1)
	c, err := build(edited, defaultTemplates, "edited")
	require.NoError(t, err)
	assert.Equal(t, a.Catalog.Version(), c.Catalog.Version())
	assert.NotEqual(t, a.Digest, c.Digest)
}

func TestStaticStore(t *testing.T) {
	snap, err := Default()
	require.NoError(t, err)

	store := NewStaticStore(snap)
	require.NoError(t, store.Reload())
	assert.Same(t, snap, store.Current())
}
