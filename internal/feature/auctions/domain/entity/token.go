package entity

// Token is a bearer token scoped to one API region. It lives for a single run.
type Token struct {
	Value  string
	Region string
}
