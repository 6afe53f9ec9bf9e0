package discover

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/resolve"
)

// ParseTags decodes the json and contract tags of member into an Effect.
// named reports whether the json tag supplied a wire name. owner and member
// only label errors.
//
//	json:"name,omitempty,string"  wire name and flags
//	json:"-"                      ignore
//	json:",unknown"               extension data
//	contract:"converter=NAME,order=N,include"
func ParseTags(owner, member string, st reflect.StructTag) (eff resolve.Effect, named bool, err error) {
	if tag, ok := st.Lookup("json"); ok {
		if tag == "-" {
			eff.Ignore = true
		} else {
			name, opts, _ := strings.Cut(tag, ",")
			if name != "" {
				eff.WireName = name
				named = true
			}

			for _, opt := range splitOpts(opts) {
				switch opt {
				case "omitempty", "omitzero":
					eff.OmitEmpty = true
				case "string":
					eff.NumberHandling = converter.NumberAllowReadingFromString | converter.NumberWriteAsString
				case "unknown":
					eff.ExtensionData = true
				}
			}
		}
	}

	tag, ok := st.Lookup("contract")
	if !ok {
		return eff, named, nil
	}

	for _, opt := range splitOpts(tag) {
		key, value, _ := strings.Cut(opt, "=")

		switch key {
		case "include":
			eff.Include = true
		case "ignore":
			eff.Ignore = true
		case "converter":
			eff.Converter = value
		case "order":
			n, convErr := strconv.Atoi(value)
			if convErr != nil {
				return eff, named, contracterr.New(contracterr.InvalidTypeForSerialization, owner, member,
					fmt.Sprintf("bad order %q", value))
			}

			eff.Order = n
		default:
			return eff, named, contracterr.New(contracterr.InvalidTypeForSerialization, owner, member,
				fmt.Sprintf("unknown contract tag option %q", key))
		}
	}

	return eff, named, nil
}

func splitOpts(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := parts[:0]

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
