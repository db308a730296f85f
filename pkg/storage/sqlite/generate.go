package sqlite

//go:generate go run github.com/go-jet/jet/v2/cmd/jet -source=sqlite -dsn=file:./schema/gen.sqlite -path=./schema/gen
