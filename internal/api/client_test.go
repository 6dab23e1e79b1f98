package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL + "/"})
}

func TestClient_Headers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy"}`))
	})

	out, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	require.Equal(t, "healthy", out["status"])
}

func TestListCompounds_SearchParam(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/compounds/", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"formula":"H2O","name":"Water"},{"formula":"CO2"}]`))
	})

	out, err := c.ListCompounds(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "", gotQuery, "empty search must not send a search param")
	require.Equal(t, "Water", *out[0].Name)
	require.Nil(t, out[1].Name)

	_, err = c.ListCompounds(context.Background(), "eth")
	require.NoError(t, err)
	require.Equal(t, "search=eth", gotQuery)
}

func TestListCompounds_NullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	out, err := c.ListCompounds(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestGetCompound_EscapesFormula(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/compounds/CH3COOH", r.URL.Path)
		w.Write([]byte(`{"formula":"CH3COOH","name":"Acetic acid","molecular_weight":60.05}`))
	})

	out, err := c.GetCompound(context.Background(), "CH3COOH")
	require.NoError(t, err)
	require.Equal(t, "CH3COOH", out.Formula)
	require.InDelta(t, 60.05, *out.MolecularWeight, 1e-9)
}

func TestGetCompound_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Compound not found"}`))
	})

	_, err := c.GetCompound(context.Background(), "XYZ123")
	var sErr *StatusError
	require.True(t, errors.As(err, &sErr))
	require.Equal(t, http.StatusNotFound, sErr.StatusCode)
	require.Contains(t, sErr.Body, "Compound not found")
}

func TestGetSuggestions_DefaultLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/compounds/suggestions/", r.URL.Path)
		require.Equal(t, "CH", r.URL.Query().Get("prefix"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"formula":"CH4","name":"Methane"}]`))
	})

	out, err := c.GetSuggestions(context.Background(), "CH", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestFindPaths_Params(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "CH3CH2OH", q.Get("start"))
		require.Equal(t, "CH3COOH", q.Get("end"))
		require.Equal(t, "3", q.Get("max_steps"))
		w.Write([]byte(`[]`))
	})

	out, err := c.FindPaths(context.Background(), "CH3CH2OH", "CH3COOH", 3)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestFindPaths_DualShapeCompounds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "5", r.URL.Query().Get("max_steps"))
		w.Write([]byte(`[{
			"compounds": [
				{"formula":"A","properties":{"name":"Alpha"}},
				{"formula":"B","name":"Beta","state":"liquid"}
			],
			"reactions": [{"reagent":"KMnO4","temperature":25}],
			"reagents": ["KMnO4"],
			"total_steps": 1
		}]`))
	})

	out, err := c.FindPaths(context.Background(), "A", "B", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Compounds[0].Properties)
	require.Nil(t, out[0].Compounds[1].Properties)
	require.Equal(t, "liquid", *out[0].Compounds[1].State)
	require.Equal(t, 25.0, *out[0].Reactions[0].Temperature)
}

func TestCreateCompound_Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/compounds/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "NaCl", body["formula"])
		require.Equal(t, "Salt", body["name"])
		_, hasState := body["state"]
		require.False(t, hasState, "unset optional fields must be omitted")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"formula":"NaCl","name":"Salt"}`))
	})

	name := "Salt"
	out, err := c.CreateCompound(context.Background(), NewCompound{Formula: "NaCl", Name: &name})
	require.NoError(t, err)
	require.Equal(t, "NaCl", out.Formula)
}

func TestCreateReaction(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"json string", `"rxn-42"`, "rxn-42", false},
		{"object with id", `{"id":"rxn-43"}`, "rxn-43", false},
		{"unexpected", `[1,2]`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/reactions/", r.URL.Path)
				var body NewReaction
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				require.Equal(t, "C2H5OH", body.Reactant)
				require.Equal(t, "H2SO4", body.Conditions.Reagent)
				w.Write([]byte(tt.body))
			})

			id, err := c.CreateReaction(context.Background(), NewReaction{
				Reactant:   "C2H5OH",
				Product:    "C2H4",
				Conditions: RawReaction{Reagent: "H2SO4"},
			})
			if tt.wantErr {
				var dErr *DecodeError
				require.True(t, errors.As(err, &dErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, id)
		})
	}
}

func TestDo_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := c.ListCompounds(context.Background(), "")
	var dErr *DecodeError
	require.True(t, errors.As(err, &dErr))
	require.Equal(t, "list compounds", dErr.Op)
}

func TestDo_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(Config{BaseURL: url, Timeout: time.Second})
	_, err := c.HealthCheck(context.Background())
	require.Error(t, err)

	var sErr *StatusError
	require.False(t, errors.As(err, &sErr), "transport failures carry no status")
}

func TestDo_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.HealthCheck(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
