package worker

// Kind distinguishes people from robots
type Kind string

const (
	KindPerson Kind = "PERSON"
	KindRobot  Kind = "ROBOT"
)

// NoMission is the mission ID of a worker that is not on a mission
const NoMission = 0

// Worker is anything that can join a mission and be given tasks
type Worker interface {
	Name() string
	Kind() Kind

	// AssociatedSettlement is the settlement the worker belongs to
	AssociatedSettlement() string
	// CurrentSettlement is "" while the worker is outside
	CurrentSettlement() string
	SetCurrentSettlement(name string)

	Task() Task
	AssignTask(task Task)

	MissionID() int
	SetMissionID(id int)
}

// Task describes what a worker is currently doing
type Task struct {
	Name    string
	Mission int
	Target  string
}

// IsIdle reports whether no task is assigned
func (t Task) IsIdle() bool {
	return t.Name == ""
}

// Well known task names given out by missions
const (
	TaskOperateVehicle = "OperateVehicle"
	TaskLoadVehicle    = "LoadVehicle"
	TaskUnloadVehicle  = "UnloadVehicle"
	TaskNegotiateTrade = "NegotiateTrade"
	TaskMineSite       = "MineSite"
	TaskCollect        = "CollectResources"
	TaskConstruct      = "ConstructBuilding"
	TaskDeliverSupply  = "DeliverSupply"
	TaskReviewPlan     = "ReviewMissionPlan"
)

// base holds the state shared by people and robots
type base struct {
	name       string
	associated string
	current    string
	task       Task
	missionID  int
}

func (b *base) Name() string                     { return b.name }
func (b *base) AssociatedSettlement() string     { return b.associated }
func (b *base) CurrentSettlement() string        { return b.current }
func (b *base) SetCurrentSettlement(name string) { b.current = name }
func (b *base) Task() Task                       { return b.task }
func (b *base) AssignTask(task Task)             { b.task = task }
func (b *base) MissionID() int                   { return b.missionID }
func (b *base) SetMissionID(id int)              { b.missionID = id }
