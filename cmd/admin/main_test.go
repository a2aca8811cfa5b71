package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Tree(t *testing.T) {
	root := newRootCmd()

	users, _, err := root.Find([]string{"users"})
	require.NoError(t, err)

	var names []string
	for _, c := range users.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"list", "get", "confirm", "delete", "reset-password"}, names)
}

func TestNewService_RequiresEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_KEY", "")

	_, err := newService()
	require.Error(t, err)

	t.Setenv("SUPABASE_URL", "http://127.0.0.1:9999")
	_, err = newService()
	require.Error(t, err)

	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
	svc, err := newService()
	require.NoError(t, err)
	require.NotNil(t, svc)
}
