package data

// asPtrSlice converts collected row values into the pointer slice the
// services expect.
func asPtrSlice[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
