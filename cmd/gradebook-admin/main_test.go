package main

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPasswordFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("s3cret-pass\r\nignored\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	defer r.Close()

	password, err := readPassword(r, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "s3cret-pass", password)
}

func TestAddUserRequiresFlags(t *testing.T) {
	err := addUser(context.Background(), nil, nil, []string{"-email", "prof@example.com"})
	assert.EqualError(t, err, "adduser requires -email and -name")
}
