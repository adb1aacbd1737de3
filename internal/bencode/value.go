package bencode

// Value is one of Int, String, List or Dict. The set is closed: only types
// in this package implement it.
type Value interface {
	bencodeValue()
}

type Int int64

// String is a binary-safe byte string.
type String []byte

type List []Value

// Dict keys are serialized in ascending byte order regardless of how the
// map was built.
type Dict map[string]Value

func (Int) bencodeValue()    {}
func (String) bencodeValue() {}
func (List) bencodeValue()   {}
func (Dict) bencodeValue()   {}

// Str is a shorthand for String([]byte(s)).
func Str(s string) String {
	return String(s)
}

// Strs converts a slice of strings into a List of byte strings.
func Strs(ss []string) List {
	l := make(List, len(ss))
	for i, s := range ss {
		l[i] = Str(s)
	}
	return l
}
