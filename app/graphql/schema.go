// Package graphql exposes a read-only GraphQL view of the admin data.
//
//	{ foods { id name price } sessions { session_id message_count } }
package graphql

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/bizadmin/app/services"
	gql "github.com/shashiranjanraj/bizadmin/pkg/graphql"
)

var foodType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Food",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.Int},
		"name":       &graphql.Field{Type: graphql.String},
		"descr":      &graphql.Field{Type: graphql.String},
		"price":      &graphql.Field{Type: graphql.String},
		"qty":        &graphql.Field{Type: graphql.Int},
		"created_at": &graphql.Field{Type: graphql.String},
	},
})

var leadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Lead",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.Int},
		"lead_name":    &graphql.Field{Type: graphql.String},
		"lead_phone":   &graphql.Field{Type: graphql.String},
		"lead_email":   &graphql.Field{Type: graphql.String},
		"lead_address": &graphql.Field{Type: graphql.String},
		"lead_notes":   &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"title":       &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"sold":        &graphql.Field{Type: graphql.Int},
		"image":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"created_at":  &graphql.Field{Type: graphql.String},
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"session_id": &graphql.Field{Type: graphql.String},
		"role":       &graphql.Field{Type: graphql.String},
		"content":    &graphql.Field{Type: graphql.String},
		"date":       &graphql.Field{Type: graphql.String},
	},
})

var sessionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SessionSummary",
	Fields: graphql.Fields{
		"session_id":    &graphql.Field{Type: graphql.String},
		"message_count": &graphql.Field{Type: graphql.Int},
		"last_message":  &graphql.Field{Type: graphql.String},
		"last_date":     &graphql.Field{Type: graphql.String},
	},
})

// list adapts a service call to a resolver returning JSON-shaped rows.
func list[T any](load func(ctx context.Context) ([]T, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		rows, err := load(p.Context)
		if err != nil {
			return nil, err
		}
		return gql.Rows(rows)
	}
}

// Schema builds the query root over s.
func Schema(s *services.Services) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"foods":    &graphql.Field{Type: graphql.NewList(foodType), Resolve: list(s.Foods.List)},
			"leads":    &graphql.Field{Type: graphql.NewList(leadType), Resolve: list(s.Leads.List)},
			"products": &graphql.Field{Type: graphql.NewList(productType), Resolve: list(s.Products.List)},
			"history":  &graphql.Field{Type: graphql.NewList(messageType), Resolve: list(s.Chat.History)},
			"sessions": &graphql.Field{Type: graphql.NewList(sessionType), Resolve: list(s.Chat.SessionsSummary)},
			"session": &graphql.Field{
				Type: graphql.NewList(messageType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					rows, err := s.Chat.Session(p.Context, id)
					if err != nil {
						return nil, err
					}
					return gql.Rows(rows)
				},
			},
		},
	})
	return gql.NewSchema(query)
}
