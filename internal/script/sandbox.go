package script

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// allowedPkgs is the stdlib surface scripts may import, keyed the way yaegi
// keys its symbol table ("importPath/pkgName"). Anything touching the
// filesystem, network, processes, or unsafe memory is left out.
var allowedPkgs = []string{
	"bytes/bytes",
	"encoding/base64/base64",
	"encoding/json/json",
	"errors/errors",
	"fmt/fmt",
	"math/math",
	"regexp/regexp",
	"sort/sort",
	"strconv/strconv",
	"strings/strings",
	"time/time",
	"unicode/utf8/utf8",
	"unicode/unicode",
}

// restrictedStdlib filters yaegi's stdlib symbols down to allowedPkgs.
func restrictedStdlib() interp.Exports {
	restricted := interp.Exports{}
	for _, key := range allowedPkgs {
		if syms, ok := stdlib.Symbols[key]; ok {
			restricted[key] = syms
		}
	}
	return restricted
}

// hostExports is the small helper API exposed to render scripts under
// import "cardutil". ParseCard saves every script the same JSON boilerplate
// for unpacking its payload.
var hostExports = interp.Exports{
	"cardutil/cardutil": {
		"ParseCard": reflect.ValueOf(parseCard),
	},
}

func parseCard(payload string) (map[string]interface{}, error) {
	var card map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &card); err != nil {
		return nil, fmt.Errorf("card payload is not a JSON object: %w", err)
	}
	return card, nil
}
