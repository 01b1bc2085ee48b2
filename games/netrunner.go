//go:build game

// Render script for Android: Netrunner cards, as loaded by NetrunnerDB pack
// files (see `deckhand import`). Interpreted by the deckhand script engine;
// not compiled into the host.
package main

import (
	"fmt"

	"cardutil"
)

var factionNames = map[string]string{
	"anarch":             "Anarch",
	"criminal":           "Criminal",
	"shaper":             "Shaper",
	"nbn":                "NBN",
	"jinteki":            "Jinteki",
	"weyland-consortium": "Weyland Consortium",
	"haas-bioroid":       "Haas-Bioroid",
}

func str(card map[string]interface{}, key string) string {
	if v, ok := card[key].(string); ok {
		return v
	}
	return ""
}

func num(card map[string]interface{}, key string) string {
	v, ok := card[key]
	if !ok || v == nil {
		return "-"
	}
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%v", f)
	}
	return fmt.Sprintf("%v", v)
}

func faction(code string) string {
	if name, ok := factionNames[code]; ok {
		return name
	}
	return code
}

func embed(payload string) (map[string]interface{}, error) {
	card, err := cardutil.ParseCard(payload)
	if err != nil {
		return nil, err
	}

	code := str(card, "code")
	header := fmt.Sprintf("%s: %s - Cost: %s - Trash: %s - Influence: %s",
		str(card, "type_code"),
		str(card, "keywords"),
		num(card, "cost"),
		num(card, "trash_cost"),
		num(card, "faction_cost"))
	footer := fmt.Sprintf("%s • %s #%s",
		faction(str(card, "faction_code")),
		str(card, "pack_code"),
		num(card, "position"))

	return map[string]interface{}{
		"title":     str(card, "title"),
		"url":       "https://netrunnerdb.com/en/card/" + code,
		"thumbnail": "https://card-images.netrunnerdb.com/v2/large/" + code + ".jpg",
		"field":     []string{header, str(card, "text")},
		"footer":    footer,
	}, nil
}
