package tokens

// Merge layers bundles left to right and returns a new tree. For each key, two
// subtrees merge recursively; otherwise the rightmost non-empty value wins.
// nil and "" count as empty, so an override can never blank out a default.
// Nil or empty layers are no-ops and no input is modified.
func Merge(layers ...Bundle) Bundle {
	out := Bundle{}
	for _, layer := range layers {
		mergeInto(out, layer)
	}
	return out
}

func mergeInto(dst, src Bundle) {
	for k, v := range src {
		if isEmpty(v) {
			continue
		}
		srcChild, srcIsNode := asBundle(v)
		if srcIsNode {
			dstChild, dstIsNode := asBundle(dst[k])
			if !dstIsNode {
				dstChild = Bundle{}
			}
			mergeInto(dstChild, srcChild)
			if len(dstChild) > 0 || dstIsNode {
				dst[k] = dstChild
			}
			continue
		}
		dst[k] = v
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

// Resolve merges the theme and page overrides over the defaults for cat.
func Resolve(cat Category, theme, page Bundle) Bundle {
	return Merge(Defaults(cat), theme, page)
}
