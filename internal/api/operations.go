// internal/api/operations.go
//
// Typed wrappers around the fixed GraphQL documents the backend accepts.
// The selection sets are the contract; the bulk users query in particular
// must keep requesting every field the form renders.

package api

import (
	"context"

	"github.com/micasa/micasa-admin/internal/party"
)

const usersQuery = `
query users {
  users {
    _id
    address
    county
    parcel
    lastName
    firstName
    email
    buyers {
      _id
      name
      counterOffers {
        name
        signatureId
        counterOfferId
        expirationTime
        completed
      }
      supportingDocuments {
        name
      }
    }
    documents {
      name
      completed
    }
  }
}`

const addDocumentMutation = `
mutation addDocument(
    $userId: String!,
    $documents: [String]!,
    $address: String,
    $parcel: String,
    $county: String,
    $pdfUrl: String,
    $expirationTime: String
  ){
    addDocument(userId: $userId, documents: $documents, address: $address, parcel: $parcel, county: $county, pdfUrl: $pdfUrl, expirationTime: $expirationTime){
      _id
      documents {
        name
        completed
      }
    }
  }
`

const removeDocumentMutation = `
mutation removeDocument($userId: String!, $documentName: String!){
    removeDocument(userId: $userId, documentName: $documentName){
      _id
      documents {
        name
        completed
      }
    }
  }
`

const createBuyerMutation = `
mutation createBuyer($buyerName: String!, $sellerId: String!) {
    createBuyer(buyerName: $buyerName, sellerId: $sellerId) {
      _id
      name
      counterOffers {
        name
        expirationTime
        counterOfferId
      }
    }
  }
`

const addCounterOfferMutation = `
mutation addCounterOffer(
    $buyerId: String!,
    $sellerId: String!,
    $pdfUrl: String!,
    $expirationTime: String,
    $title: String
  ){
    addCounterOffer (buyerId: $buyerId, sellerId: $sellerId, pdfUrl: $pdfUrl, expirationTime: $expirationTime, title: $title){
      _id
      counterOffers {
        name
        signatureId
        counterOfferId
        expirationTime
        completed
      }
    }
  }
`

const addSupportingDocumentMutation = `
mutation addSupportingDocument($buyerId: String!, $pdfUrl: String!, $title: String!){
    addSupportingDocument(buyerId: $buyerId, pdfUrl: $pdfUrl, title: $title){
      _id
      supportingDocuments {
        name
      }
    }
  }
`

const removeCounterOfferMutation = `
mutation removeDocument($buyerId: String!, $documentName: String!){
    removeDocument(buyerId: $buyerId, documentName: $documentName){
      _id
      counterOffers {
        name
        completed
      }
    }
  }
`

// LoadSellers runs the bulk users query and returns the roster contents.
func (c *Client) LoadSellers(ctx context.Context) ([]party.Seller, error) {
	var data struct {
		Users []party.Seller `json:"users"`
	}
	if err := c.run(ctx, c.endpoints.User, "users", usersQuery, map[string]any{}, &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}

// AddDocumentInput carries the seller submission.
type AddDocumentInput struct {
	UserID         string
	Documents      []string
	Address        string
	Parcel         string
	County         string
	PDFURL         string
	ExpirationTime string
}

// AddDocument records one or more listing documents against a seller.
func (c *Client) AddDocument(ctx context.Context, in AddDocumentInput) error {
	vars := map[string]any{
		"userId":         in.UserID,
		"documents":      in.Documents,
		"address":        in.Address,
		"parcel":         in.Parcel,
		"county":         in.County,
		"pdfUrl":         in.PDFURL,
		"expirationTime": in.ExpirationTime,
	}
	return c.run(ctx, c.endpoints.User, "addDocument", addDocumentMutation, vars, nil)
}

// RemoveSellerDocument removes a listing document by name.
func (c *Client) RemoveSellerDocument(ctx context.Context, userID, documentName string) error {
	vars := map[string]any{"userId": userID, "documentName": documentName}
	return c.run(ctx, c.endpoints.User, "removeDocument", removeDocumentMutation, vars, nil)
}

// CreateBuyer attaches a new buyer to a seller and returns its record.
func (c *Client) CreateBuyer(ctx context.Context, buyerName, sellerID string) (party.Buyer, error) {
	var data struct {
		CreateBuyer party.Buyer `json:"createBuyer"`
	}
	vars := map[string]any{"buyerName": buyerName, "sellerId": sellerID}
	if err := c.run(ctx, c.endpoints.Buyer, "createBuyer", createBuyerMutation, vars, &data); err != nil {
		return party.Buyer{}, err
	}
	if data.CreateBuyer.Name == "" {
		data.CreateBuyer.Name = buyerName
	}
	return data.CreateBuyer, nil
}

// AddCounterOfferInput carries a buyer counter-offer submission.
type AddCounterOfferInput struct {
	BuyerID        string
	SellerID       string
	PDFURL         string
	ExpirationTime string
	Title          string
}

// AddCounterOffer records a counter-offer for a buyer.
func (c *Client) AddCounterOffer(ctx context.Context, in AddCounterOfferInput) error {
	vars := map[string]any{
		"buyerId":        in.BuyerID,
		"sellerId":       in.SellerID,
		"pdfUrl":         in.PDFURL,
		"expirationTime": in.ExpirationTime,
		"title":          in.Title,
	}
	return c.run(ctx, c.endpoints.Buyer, "addCounterOffer", addCounterOfferMutation, vars, nil)
}

// AddSupportingDocument records an upload-only document for a buyer.
func (c *Client) AddSupportingDocument(ctx context.Context, buyerID, pdfURL, title string) error {
	vars := map[string]any{"buyerId": buyerID, "pdfUrl": pdfURL, "title": title}
	return c.run(ctx, c.endpoints.Buyer, "addSupportingDocument", addSupportingDocumentMutation, vars, nil)
}

// RemoveCounterOffer removes a buyer counter-offer by name. Supporting
// documents have no remove path in the backend.
func (c *Client) RemoveCounterOffer(ctx context.Context, buyerID, documentName string) error {
	vars := map[string]any{"buyerId": buyerID, "documentName": documentName}
	return c.run(ctx, c.endpoints.Buyer, "removeDocument", removeCounterOfferMutation, vars, nil)
}
