package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/pricefeed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pricedPage = `<html><body><div id="priceBox"><div class="pricing"><div><p><span class="price">$24.50</span></p></div></div></div></body></html>`
	gonePage   = `<html><body><p>This Product is no longer available</p></body></html>`
)

// Commands share cobra's package-level flag state, so they run as subtests
// against one proxy.
func TestCommands(t *testing.T) {
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "gone") {
			w.Write([]byte(gonePage))
			return
		}
		w.Write([]byte(pricedPage))
	}))
	defer proxySrv.Close()

	t.Run("run", func(t *testing.T) {
		dir := t.TempDir()
		targets := filepath.Join(dir, "master_links.csv")
		output := filepath.Join(dir, "results.csv")
		list := "SKU,Links\n" +
			"A,http://shop.example.com/a.html\n" +
			"B,\n" +
			"C,http://shop.example.com/gone.html\n"
		require.NoError(t, os.WriteFile(targets, []byte(list), 0o644))

		var stdout bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetArgs([]string{"run", "--proxy", proxySrv.URL, "-t", targets, "-o", output, "--prune", "--no-progress"})
		require.NoError(t, Execute(context.Background()))

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "sku,links,stock,price,remove\n"+
			"A,http://shop.example.com/a.html,In,24.50,false\n"+
			"B,,Invalid,,false\n"+
			"C,http://shop.example.com/gone.html,Out,0,true\n", string(data))

		pruned, err := os.ReadFile(targets)
		require.NoError(t, err)
		assert.Equal(t, "sku,links\nA,http://shop.example.com/a.html\nB,\n", string(pruned))

		assert.Contains(t, stdout.String(), "3 targets")
	})

	t.Run("get", func(t *testing.T) {
		var stdout bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetArgs([]string{"get", "--proxy", proxySrv.URL, "--sku", "A", "--format", "json", "http://shop.example.com/a.html"})
		require.NoError(t, Execute(context.Background()))

		var result models.ExtractionResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "A", result.SKU)
		assert.Equal(t, models.StockIn, result.StockStatus)
		assert.Equal(t, "24.50", result.PriceString())
		assert.Equal(t, models.FetchOK, result.FetchStatus)
	})

	t.Run("failed run still closes the application", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.csv")
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"run", "--proxy", proxySrv.URL, "-t", missing, "-o", filepath.Join(t.TempDir(), "out.csv"), "--no-progress"})

		err := Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load targets")
		assert.Nil(t, GetApp(runCmd), "application left open after a failed run")
	})
}
