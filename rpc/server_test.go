package rpc

import (
	"context"
	"net"
	"testing"

	"maze-server/config"
	"maze-server/maze"
	"maze-server/pathfinding"
	"maze-server/solve"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestClient(t *testing.T, cfg config.Config) *Client {
	t.Helper()
	store := maze.NewStore()
	if _, err := store.Add(config.DefaultMazeName, config.DefaultMaze); err != nil {
		t.Fatal(err)
	}
	srv := NewGRPCServer(solve.NewService(cfg, store))
	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn)
}

func TestSolve(t *testing.T) {
	c := newTestClient(t, config.Config{})
	resp, err := c.Solve(context.Background(), solve.Request{MazeID: config.DefaultMazeName})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != pathfinding.StatusFound || resp.Cost != 9 || resp.Moves != "EESSEEEEE" {
		t.Errorf("got %+v", resp)
	}
	want := pathfinding.Position{Row: 3, Col: 8}
	if got := resp.Path[len(resp.Path)-1]; got != want {
		t.Errorf("path ends at %v, want %v", got, want)
	}
}

func TestSolveBudget(t *testing.T) {
	c := newTestClient(t, config.Config{})
	resp, err := c.Solve(context.Background(), solve.Request{
		MazeID:        config.DefaultMazeName,
		Policy:        "greedy",
		MaxExpansions: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != pathfinding.StatusBudgetExceeded || resp.Expansions != 2 {
		t.Errorf("got %s after %d expansions", resp.Status, resp.Expansions)
	}
}

func TestCompareAndList(t *testing.T) {
	c := newTestClient(t, config.Config{})
	cmp, err := c.Compare(context.Background(), solve.Request{
		Rows: []string{"# ## #B", "   #   ", "    #  ", "       ", "A  #   "},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cmp.AStar.Cost != 10 || cmp.Greedy.Cost != 14 {
		t.Errorf("costs: astar %d greedy %d", cmp.AStar.Cost, cmp.Greedy.Cost)
	}

	mazes, err := c.ListMazes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(mazes) != 1 || mazes[0].Name != config.DefaultMazeName || mazes[0].Walls != 31 {
		t.Errorf("mazes: %+v", mazes)
	}
}

func TestStatusCodes(t *testing.T) {
	c := newTestClient(t, config.Config{})
	tests := []struct {
		name string
		req  solve.Request
		want codes.Code
	}{
		{"unknown maze", solve.Request{MazeID: "nope"}, codes.NotFound},
		{"bad policy", solve.Request{MazeID: config.DefaultMazeName, Policy: "bfs"}, codes.InvalidArgument},
		{"bad rows", solve.Request{Rows: []string{"A"}}, codes.InvalidArgument},
		{"empty", solve.Request{}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Solve(context.Background(), tt.req)
			if got := status.Code(err); got != tt.want {
				t.Errorf("got %v (%v), want %v", got, err, tt.want)
			}
		})
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	c := newTestClient(t, config.Config{})
	in, err := structpb.NewStruct(map[string]any{"maze_id": "default", "colour": "blue"})
	if err != nil {
		t.Fatal(err)
	}
	err = c.cc.Invoke(context.Background(), "/"+ServiceName+"/Solve", in, new(structpb.Struct))
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("got %v", err)
	}
}

func TestToStatus(t *testing.T) {
	if got := status.Code(toStatus(context.DeadlineExceeded)); got != codes.DeadlineExceeded {
		t.Errorf("deadline: got %v", got)
	}
	if got := status.Code(toStatus(context.Canceled)); got != codes.Canceled {
		t.Errorf("cancel: got %v", got)
	}
	if got := status.Code(toStatus(net.ErrClosed)); got != codes.Internal {
		t.Errorf("other: got %v", got)
	}
}
