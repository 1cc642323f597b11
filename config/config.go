package config

// HealthConfig contains the health and shield pool every combatant spawns with
type HealthConfig struct {
	MaxHealth  float64 `json:"maxHealth"`
	MaxShield  float64 `json:"maxShield"`
	RegenRate  float64 `json:"regenRate"`  // shield units per regen step
	RegenDelay float64 `json:"regenDelay"` // seconds without damage before regen starts
}

// WeaponKindConfig contains configuration for one weapon kind
type WeaponKindConfig struct {
	Name                 string  `json:"name"`
	BaseDamage           float64 `json:"baseDamage"`
	RateOfFire           float64 `json:"rateOfFire"` // rounds per minute
	ClipMax              int     `json:"clipMax"`
	ReloadDuration       float64 `json:"reloadDuration"` // seconds, length of the reload animation
	VulnerableMultiplier float64 `json:"vulnerableMultiplier"`
	TraceRange           float64 `json:"traceRange"`

	// Projectile weapons spawn a projectile instead of tracing
	IsProjectile       bool    `json:"isProjectile"`
	ProjectileSpeed    float64 `json:"projectileSpeed"`    // units per second
	ProjectileGravity  float64 `json:"projectileGravity"`  // units per second squared
	ProjectileLifetime float64 `json:"projectileLifetime"` // seconds
	ProjectileSize     float64 `json:"projectileSize"`
}

// InventoryConfig contains the loadout handed out by SpawnInventory
type InventoryConfig struct {
	StartingAmmo int      `json:"startingAmmo"`
	Loadout      []string `json:"loadout"` // weapon kind names, in equip order
}

// CombatantConfig contains combatant body and lifetime configuration
type CombatantConfig struct {
	DeathLifespan  float64 `json:"deathLifespan"`  // seconds a dead combatant stays in the arena
	DetachedGrace  float64 `json:"detachedGrace"`  // seconds a disconnected combatant waits for a reconnect
	BodyWidth      float64 `json:"bodyWidth"`      // flesh hitbox
	BodyHeight     float64 `json:"bodyHeight"`
	HeadSize       float64 `json:"headSize"`       // vulnerable hitbox on top of the body
	MuzzleHeight   float64 `json:"muzzleHeight"`   // trace origin, measured down from the top of the head
	DefaultSpawnX  float64 `json:"defaultSpawnX"`  // used when the arena has no spawn points
	DefaultSpawnY  float64 `json:"defaultSpawnY"`
	MaxRejections  int     `json:"maxRejections"`  // validation failures before a sender is flagged
	RequestBacklog int     `json:"requestBacklog"` // queued requests between two ticks
}

// ReplicationConfig contains snapshot and keyframe configuration
type ReplicationConfig struct {
	KeyframeInterval int     `json:"keyframeInterval"` // ticks between full necs syncs
	TraceQuantum     float64 `json:"traceQuantum"`     // grid size hit traces are rounded to
}

// ServerConfig contains dedicated server defaults, overridable by flags
type ServerConfig struct {
	Port          uint    `json:"port"`
	TickRate      int     `json:"tickRate"`
	Name          string  `json:"name"`
	Version       string  `json:"version"` // required client version, empty accepts any
	Region        string  `json:"region"`
	MaxCombatants int     `json:"maxCombatants"`
	ArenaDir      string  `json:"arenaDir"`
	Arena         string  `json:"arena"`
	MasterURL     string  `json:"masterURL"`
	Heartbeat     float64 `json:"heartbeat"` // seconds between master heartbeats
}

// Global configuration instances
var Health HealthConfig
var Weapons map[string]WeaponKindConfig
var Inventory InventoryConfig
var Combatant CombatantConfig
var Replication ReplicationConfig
var Server ServerConfig

// Weapon kind names
const (
	WeaponRifle    = "rifle"
	WeaponLauncher = "launcher"
)

func init() {
	Reset()
}

// Reset restores every config instance to its built-in defaults.
func Reset() {
	Health = HealthConfig{
		MaxHealth:  100,
		MaxShield:  100,
		RegenRate:  1,
		RegenDelay: 5,
	}

	Weapons = map[string]WeaponKindConfig{
		WeaponRifle: {
			Name:                 WeaponRifle,
			BaseDamage:           20,
			RateOfFire:           600,
			ClipMax:              30,
			ReloadDuration:       2.0,
			VulnerableMultiplier: 4,
			TraceRange:           10000,
		},
		WeaponLauncher: {
			Name:                 WeaponLauncher,
			BaseDamage:           80,
			RateOfFire:           60,
			ClipMax:              6,
			ReloadDuration:       3.0,
			VulnerableMultiplier: 1,
			IsProjectile:         true,
			ProjectileSpeed:      600,
			ProjectileGravity:    900,
			ProjectileLifetime:   10,
			ProjectileSize:       6,
		},
	}

	Inventory = InventoryConfig{
		StartingAmmo: 300,
		Loadout:      []string{WeaponRifle, WeaponLauncher},
	}

	Combatant = CombatantConfig{
		DeathLifespan:  10,
		DetachedGrace:  30,
		BodyWidth:      16,
		BodyHeight:     32,
		HeadSize:       8,
		MuzzleHeight:   10,
		DefaultSpawnX:  32,
		DefaultSpawnY:  32,
		MaxRejections:  20,
		RequestBacklog: 1024,
	}

	Replication = ReplicationConfig{
		KeyframeInterval: 30,
		TraceQuantum:     1,
	}

	Server = ServerConfig{
		Port:          7373,
		TickRate:      30,
		Name:          "Cyberwarfare Server",
		Region:        "local",
		MaxCombatants: 16,
		Arena:         "duel",
		Heartbeat:     30,
	}
}

// WeaponKind returns the configuration for a weapon kind name.
func WeaponKind(name string) (WeaponKindConfig, bool) {
	k, ok := Weapons[name]
	return k, ok
}
