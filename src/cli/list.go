// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"strings"

	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/keystore"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// renderStoreTable formats the identity store contents as a markdown
// table so the operator can see which aliases are available to force.
func renderStoreTable(entries []keystore.Entry) string {
	if len(entries) == 0 {
		return "Keystore holds no identities"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	table.Header([]string{"Alias", "Subject", "Key Type", "Valid Until"})

	var rows [][]string
	for _, e := range entries {
		subject := ""
		keyType := ""
		validUntil := ""
		if len(e.Chain) > 0 {
			leaf := e.Chain[0]
			subject = leaf.Subject.CommonName
			keyType = keystore.KeyTypeOf(leaf.PublicKey)
			validUntil = leaf.NotAfter.Format("2006-01-02")
		}
		rows = append(rows, []string{e.Alias, subject, keyType, validUntil})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}
