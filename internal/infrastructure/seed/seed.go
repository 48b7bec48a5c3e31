// Package seed loads clients and their cards from a YAML file into storage
package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/damon-houk/card-transaction-service/internal/domain/repository"
	yaml "gopkg.in/yaml.v3"
)

// ExpiryLayout is the expiry date format in seed files
const ExpiryLayout = "2006-01-02"

// File is the root of a seed document:
//
//	clients:
//	  - name: Nome Teste
//	    cpf: "05887098082"
//	    uf: CE
//	    cards:
//	      - number: "0588709808286239"
//	        expiry_date: 2030-12-01
//	        blocked: false
type File struct {
	Clients []Client `yaml:"clients"`
}

// Client is one client entry with the cards it owns
type Client struct {
	Name  string `yaml:"name"`
	CPF   string `yaml:"cpf"`
	UF    string `yaml:"uf"`
	Cards []Card `yaml:"cards"`
}

// Card is one card entry
type Card struct {
	Number     string `yaml:"number"`
	ExpiryDate string `yaml:"expiry_date"`
	Blocked    bool   `yaml:"blocked"`
}

// Result counts what Apply stored
type Result struct {
	Clients int
	Cards   int
}

// Load decodes and checks a seed document
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, c := range f.Clients {
		if c.Name == "" {
			return nil, fmt.Errorf("client %d: name is required", i)
		}
		for j, card := range c.Cards {
			if card.Number == "" {
				return nil, fmt.Errorf("client %q card %d: number is required", c.Name, j)
			}
			if _, err := time.Parse(ExpiryLayout, card.ExpiryDate); err != nil {
				return nil, fmt.Errorf("client %q card %s: expiry_date must be YYYY-MM-DD", c.Name, card.Number)
			}
		}
	}

	return &f, nil
}

// Apply stores every client and then its cards, stopping at the first failure
func Apply(ctx context.Context, f *File, clients repository.ClientRepository, cards repository.CardRepository) (Result, error) {
	var res Result

	for _, c := range f.Clients {
		client, err := clients.Store(ctx, &entity.Client{Name: c.Name, CPF: c.CPF, UF: c.UF})
		if err != nil {
			return res, fmt.Errorf("failed to store client %q: %w", c.Name, err)
		}
		res.Clients++

		for _, card := range c.Cards {
			// Validated by Load
			expiry, _ := time.Parse(ExpiryLayout, card.ExpiryDate)

			_, err := cards.Store(ctx, &entity.Card{
				Number:     card.Number,
				ExpiryDate: expiry,
				Blocked:    card.Blocked,
				ClientID:   client.ID,
			})
			if err != nil {
				return res, fmt.Errorf("failed to store card %s: %w", card.Number, err)
			}
			res.Cards++
		}
	}

	return res, nil
}
