package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/bingo/internal/board"
	"github.com/lox/bingo/internal/randutil"
)

// CardCmd prints one generated board
type CardCmd struct {
	Size      int    `default:"5" help:"Board side length (odd, 5-11)"`
	BandRange int    `default:"15" help:"Numbers per column"`
	Seed      *int64 `help:"Deterministic RNG seed (optional)"`
	JSON      bool   `name:"json" help:"Print the board as JSON"`
}

func (c *CardCmd) Run() error {
	seed, _ := randutil.Seed(c.Seed)
	b, err := board.Generate(c.Size, c.BandRange, randutil.New(seed))
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(struct {
			Seed  int64       `json:"seed"`
			Board board.Board `json:"board"`
		}{seed, b})
	}

	fmt.Println(b)
	fmt.Printf("\nseed %d\n", seed)
	return nil
}
