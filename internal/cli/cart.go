package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

func cartAddCmd(r *runner) *cobra.Command {
	var flags CartAddFlags
	cmd := &cobra.Command{
		Use:   "cart:add",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			item, err := app.Carts.AddItem(ctx, cart.Candidate{
				Title: flags.Title,
				Price: flags.Price,
				Image: flags.Image,
				Size:  flags.Size,
				Color: flags.Color,
			})
			if err != nil {
				return fmt.Errorf("add %q: %w", flags.Title, err)
			}
			fmt.Fprintf(out, "%s added to cart! (qty %d, key %s)\n", item.Title, item.Quantity, item.Key)
			fmt.Fprintf(out, "Items in cart: %d\n", app.Carts.Count(ctx))
			return nil
		}),
	}
	cmd.Flags().StringVar(&flags.Title, "title", "", "Product title")
	cmd.Flags().StringVar(&flags.Price, "price", "", `Display price, e.g. "$89.99"`)
	cmd.Flags().StringVar(&flags.Image, "image", "", "Image URL")
	cmd.Flags().StringVar(&flags.Size, "size", "", "Size (default M)")
	cmd.Flags().StringVar(&flags.Color, "color", "", "Color (default Black)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func cartListCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "cart:list",
		Short: "Show the cart with cart-page totals",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			items := app.Carts.GetCart(ctx)
			PrintCart(out, items)
			if len(items) == 0 {
				return nil
			}
			totals, err := pricing.ComputeCartSummary(cart.ToLines(items))
			if err != nil {
				return err
			}
			PrintTotals(out, totals, "")
			return nil
		}),
	}
}

func cartQtyCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "cart:qty <key|index> <quantity>",
		Short: "Set the quantity of a cart line (values below 1 become 1)",
		Args:  cobra.ExactArgs(2),
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q is not a number", args[1])
			}
			var item cart.Item
			if idx, ok := parseIndex(args[0]); ok {
				item, err = app.Carts.UpdateQuantity(ctx, idx, q)
			} else {
				item, err = app.Carts.UpdateQuantityByKey(ctx, args[0], q)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: quantity %d\n", item.Title, item.Quantity)
			return nil
		}),
	}
}

func cartRemoveCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "cart:remove <key|index>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, args []string) error {
			var (
				item cart.Item
				err  error
			)
			if idx, ok := parseIndex(args[0]); ok {
				item, err = app.Carts.RemoveItem(ctx, idx)
			} else {
				item, err = app.Carts.RemoveItemByKey(ctx, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %s\n", item.Title)
			fmt.Fprintf(out, "Items in cart: %d\n", app.Carts.Count(ctx))
			return nil
		}),
	}
}

func cartClearCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "cart:clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			if !app.Carts.Clear(ctx) {
				return cart.ErrNotSaved
			}
			fmt.Fprintln(out, "Cart cleared.")
			return nil
		}),
	}
}

func cartTotalsCmd(r *runner) *cobra.Command {
	var shipping string
	cmd := &cobra.Command{
		Use:   "cart:totals",
		Short: "Show checkout totals for a shipping method",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			method, ok := pricing.ParseMethod(shipping)
			if !ok {
				return fmt.Errorf("unknown shipping method %q (standard, express, overnight)", shipping)
			}
			totals, err := pricing.Compute(app.Carts.Lines(ctx), method)
			if err != nil {
				return err
			}
			PrintTotals(out, totals, method.DisplayName())
			return nil
		}),
	}
	cmd.Flags().StringVar(&shipping, "shipping", string(pricing.Standard), "Shipping method")
	return cmd
}

// parseIndex treats a non-negative integer argument as a cart position.
func parseIndex(arg string) (int, bool) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
