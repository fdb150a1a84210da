// Package lua runs math typesetting scripts written in Lua.
//
// A script defines a global typeset function and, when its engine batches
// work, a finalize function:
//
//	function typeset(src, inline)
//	    if src == "" then return nil, "empty" end
//	    local tag = inline and "span" or "div"
//	    return "<" .. tag .. " class=\"math\">" .. escape(src) .. "</" .. tag .. ">"
//	end
//
//	function finalize() end
//
// escape is provided to scripts and HTML-escapes its argument. Only the
// base, table, string and math libraries are opened.
//
// # Usage
//
//	ts, err := lua.NewTypesetter(script)
//	if err != nil {
//	    return err
//	}
//	defer ts.Close()
//
//	s := scan.New(rules, scan.WithTypesetter(ts))
package lua
