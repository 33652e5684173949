package accounts

// SynthesizeAccount builds a supplier account code from free text: "401"
// followed by the uppercased ASCII letters and digits of label. Every other
// byte, including spaces, punctuation and multi-byte characters, is dropped.
func SynthesizeAccount(label string) string {
	buf := make([]byte, 0, len(SupplierPrefix)+len(label))
	buf = append(buf, SupplierPrefix...)
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
			buf = append(buf, c-'a'+'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			buf = append(buf, c)
		}
	}
	return string(buf)
}
