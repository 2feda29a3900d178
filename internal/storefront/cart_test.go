package storefront

import (
	"math/rand"
	"testing"

	"hannas-kitchen/internal/models"
)

var (
	cake  = models.MenuItem{ID: "cake", Name: "Choco Cake", Category: models.CategoryCake, Price: 100}
	momos = models.MenuItem{ID: "momos", Name: "Momos", Category: models.CategoryNonVeg, Price: 50}
	roll  = models.MenuItem{ID: "roll", Name: "Paneer Roll", Category: models.CategoryVeg, Price: 0.1}
)

func TestCart_AddTwiceMerges(t *testing.T) {
	c := Cart{}.Add(cake).Add(cake)
	if c.Len() != 1 || c.Quantity("cake") != 2 {
		t.Fatalf("entries = %+v", c.Entries())
	}
}

func TestCart_DecrementFromOneRemoves(t *testing.T) {
	c := Cart{}.Add(cake).Add(momos).Decrement("cake")
	if c.Len() != 1 || c.Quantity("cake") != 0 || c.Entries()[0].ItemID != "momos" {
		t.Fatalf("entries = %+v", c.Entries())
	}
}

func TestCart_UnknownIDsAreNoOps(t *testing.T) {
	c := Cart{}.Add(cake)
	if got := c.Increment("ghost").Decrement("ghost"); got.Len() != 1 || got.Quantity("cake") != 1 {
		t.Fatalf("entries = %+v", got.Entries())
	}
}

func TestCart_Immutable(t *testing.T) {
	base := Cart{}.Add(cake)
	_ = base.Increment("cake")
	_ = base.Add(momos)
	_ = base.Decrement("cake")
	if base.Len() != 1 || base.Quantity("cake") != 1 {
		t.Fatalf("receiver changed: %+v", base.Entries())
	}
}

func TestCart_Total(t *testing.T) {
	tests := []struct {
		name string
		cart Cart
		want float64
	}{
		{"empty", Cart{}, 0},
		{"100x2 + 50x1", Cart{}.Add(cake).Add(cake).Add(momos), 250},
		{"no float drift", Cart{}.Add(roll).Add(roll).Add(roll), 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cart.Total(); got != tt.want {
				t.Errorf("Total() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCart_LinesDropNameAndPrice(t *testing.T) {
	lines := Cart{}.Add(cake).Add(cake).Add(momos).Lines()
	want := []models.OrderLine{{ItemID: "cake", Quantity: 2}, {ItemID: "momos", Quantity: 1}}
	if len(lines) != len(want) {
		t.Fatalf("lines = %+v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestCart_Without(t *testing.T) {
	before := Cart{}.Add(cake).Add(cake).Add(momos)
	sent := Cart{}.Add(cake).Add(momos).Lines()

	after := before.Without(sent)

	if after.Quantity("cake") != 1 || after.Quantity("momos") != 0 || after.Len() != 1 {
		t.Errorf("after = %+v", after.Entries())
	}
	if before.Quantity("cake") != 2 || before.Len() != 2 {
		t.Errorf("receiver changed: %+v", before.Entries())
	}
	if got := before.Without(before.Lines()); got.Len() != 0 {
		t.Errorf("subtracting everything left %+v", got.Entries())
	}
	if got := before.Without([]models.OrderLine{{ItemID: "ghost", Quantity: 3}}); got.Len() != 2 {
		t.Errorf("unknown line changed cart: %+v", got.Entries())
	}
}

// Random add/increment/decrement sequences never leave a non-positive
// quantity and the total always matches an independent sum.
func TestCart_RandomSequences(t *testing.T) {
	menu := []models.MenuItem{cake, momos, roll}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		c := Cart{}
		for step := 0; step < 50; step++ {
			item := menu[rng.Intn(len(menu))]
			switch rng.Intn(3) {
			case 0:
				c = c.Add(item)
			case 1:
				c = c.Increment(item.ID)
			case 2:
				c = c.Decrement(item.ID)
			}

			var cents int64
			seen := map[string]bool{}
			for _, e := range c.Entries() {
				if e.Quantity <= 0 {
					t.Fatalf("run %d step %d: entry %s has quantity %d", run, step, e.ItemID, e.Quantity)
				}
				if seen[e.ItemID] {
					t.Fatalf("run %d step %d: duplicate entry %s", run, step, e.ItemID)
				}
				seen[e.ItemID] = true
				cents += int64(e.Price*100+0.5) * int64(e.Quantity)
			}
			if got, want := c.Total(), float64(cents)/100; got != want {
				t.Fatalf("run %d step %d: Total() = %v, want %v", run, step, got, want)
			}
		}
	}
}
