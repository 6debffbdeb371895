package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
)

var (
	OWS  = []byte{SP, HTAB}
	CRLF = []byte{CR, LF}
)

func IsOWS(c byte) bool { return c == SP || c == HTAB }

// IsCTL reports whether c is a control octet (%x00-1F / %x7F).
// CTLs are forbidden everywhere outside of the CRLF line terminator.
func IsCTL(c byte) bool { return c < 0x20 || c == 0x7F }

func IsAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }
