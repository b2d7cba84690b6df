// Package graph holds the GraphQL schema and the resolver layer mapping
// each schema field to a catalog or auth operation.
package graph

import graphql "github.com/graph-gophers/graphql-go"

// MustParseSchema parses the schema against the root resolver. It panics on
// a schema/resolver mismatch, which is a programming error.
func MustParseSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r)
}

// Schema is the authoritative API contract.
const Schema = `
  type Book {
    id: ID!
    title: String!
    author: Author!
    published: Int!
    genres: [String!]!
  }

  type Author {
    name: String!
    id: ID!
    born: Int
    bookCount: Int
  }

  type User {
    username: String!
    favoriteGenre: String!
    id: ID!
  }

  type Token {
    value: String!
  }

  type Query {
    bookCount: Int!
    authorCount: Int!
    allBooks(genre: String, author: String): [Book!]!
    allAuthors: [Author!]!
    me: User
  }

  type Mutation {
    addBook(title: String!, author: String!, published: Int!, genres: [String!]!): [Book!]!
    editAuthor(name: String!, setBornTo: Int!): Author
    createUser(username: String!, favoriteGenre: String!): User
    login(username: String!, password: String!): Token
    clearDB: String
  }

  type Subscription {
    bookAdded: Book!
  }
`
