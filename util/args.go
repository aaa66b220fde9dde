package util

import (
	"strconv"
	"strings"
)

// KeywordArgs splits key=value arguments. A bare argument is stored under
// the empty key.
func KeywordArgs(args []string) map[string]string {
	ret := map[string]string{}
	for _, arg := range args {
		p := strings.SplitN(arg, "=", 2)
		if len(p) == 2 {
			ret[p[0]] = p[1]
		} else {
			ret[""] = p[0]
		}
	}
	return ret
}

func ParseArg(value string) interface{} {
	if num, err := strconv.ParseFloat(value, 64); err == nil {
		return num
	}
	return value
}

// ParseArgs turns command line arguments into event data: the bare argument
// is returned separately, key=value pairs become fields with numbers parsed.
func ParseArgs(args []string) (string, map[string]interface{}) {
	kwargs := KeywordArgs(args)
	bare := ""
	fields := map[string]interface{}{}
	for field, value := range kwargs {
		if field == "" {
			bare = value
		} else {
			fields[field] = ParseArg(value)
		}
	}
	return bare, fields
}
