package game

import (
	opt "github.com/repeale/fp-go/option"
)

// Node is a position on the board: one of the nine rooms or one of the
// twelve hallways connecting them. Rooms sit on a 3x3 grid; hallways join
// orthogonally adjacent rooms and are named after their two endpoints.
type Node uint8

const (
	Study Node = iota
	Hall
	Lounge
	Library
	Billiard
	Dining
	Conservatory
	Ballroom
	Kitchen

	StudyHall
	HallLounge
	StudyLibrary
	HallBilliard
	LoungeDining
	LibraryBilliard
	BilliardDining
	LibraryConservatory
	BilliardBallroom
	DiningKitchen
	ConservatoryBallroom
	BallroomKitchen

	nodeCount
)

const (
	NumRooms    = 9
	NumHallways = 12
)

var nodeNames = [nodeCount]string{
	"study",
	"hall",
	"lounge",
	"library",
	"billiard",
	"dining",
	"conservatory",
	"ballroom",
	"kitchen",
	"study_hall",
	"hall_lounge",
	"study_library",
	"hall_billiard",
	"lounge_dining",
	"library_billiard",
	"billiard_dining",
	"library_conservatory",
	"billiard_ballroom",
	"dining_kitchen",
	"conservatory_ballroom",
	"ballroom_kitchen",
}

// adjacency is the full board graph. Room entries include their secret
// passage, so Adjacent covers passages with no special casing.
var adjacency = map[Node][]Node{
	Study:        {StudyHall, StudyLibrary, Kitchen},
	Hall:         {StudyHall, HallLounge, HallBilliard},
	Lounge:       {HallLounge, LoungeDining, Conservatory},
	Library:      {StudyLibrary, LibraryBilliard, LibraryConservatory},
	Billiard:     {HallBilliard, LibraryBilliard, BilliardDining, BilliardBallroom},
	Dining:       {LoungeDining, BilliardDining, DiningKitchen},
	Conservatory: {LibraryConservatory, ConservatoryBallroom, Lounge},
	Ballroom:     {BilliardBallroom, ConservatoryBallroom, BallroomKitchen},
	Kitchen:      {DiningKitchen, BallroomKitchen, Study},

	StudyHall:            {Study, Hall},
	HallLounge:           {Hall, Lounge},
	StudyLibrary:         {Study, Library},
	HallBilliard:         {Hall, Billiard},
	LoungeDining:         {Lounge, Dining},
	LibraryBilliard:      {Library, Billiard},
	BilliardDining:       {Billiard, Dining},
	LibraryConservatory:  {Library, Conservatory},
	BilliardBallroom:     {Billiard, Ballroom},
	DiningKitchen:        {Dining, Kitchen},
	ConservatoryBallroom: {Conservatory, Ballroom},
	BallroomKitchen:      {Ballroom, Kitchen},
}

// secretPassages join the diagonally opposite corner rooms.
var secretPassages = map[Node]Node{
	Study:        Kitchen,
	Kitchen:      Study,
	Lounge:       Conservatory,
	Conservatory: Lounge,
}

// startingNodes places each character on a fixed hallway before the first
// turn.
var startingNodes = map[Suspect]Node{
	MissScarlet:    HallLounge,
	ProfessorPlum:  StudyLibrary,
	MrsPeacock:     LibraryConservatory,
	MrGreen:        ConservatoryBallroom,
	MrsWhite:       BallroomKitchen,
	ColonelMustard: LoungeDining,
}

func (n Node) IsRoom() bool {
	return n <= Kitchen
}

func (n Node) IsHallway() bool {
	return n >= StudyHall && n < nodeCount
}

func (n Node) String() string {
	if n >= nodeCount {
		return "invalid"
	}
	return nodeNames[n]
}

func ParseNode(name string) opt.Option[Node] {
	for node, known := range nodeNames {
		if known == name {
			return opt.Some(Node(node))
		}
	}
	return opt.None[Node]()
}

// Adjacent reports whether a single move can go from one node to the
// other. Secret passages count as adjacency.
func Adjacent(from, to Node) bool {
	for _, neighbor := range adjacency[from] {
		if neighbor == to {
			return true
		}
	}
	return false
}

// Neighbors returns every node reachable from n in one move.
func Neighbors(n Node) []Node {
	neighbors := adjacency[n]
	out := make([]Node, len(neighbors))
	copy(out, neighbors)
	return out
}

// SecretPassage returns the room reachable from n through a secret
// passage, if n has one.
func SecretPassage(n Node) opt.Option[Node] {
	if to, ok := secretPassages[n]; ok {
		return opt.Some(to)
	}
	return opt.None[Node]()
}

// StartingNode returns the hallway a character occupies before the first
// turn.
func StartingNode(s Suspect) Node {
	return startingNodes[s]
}
