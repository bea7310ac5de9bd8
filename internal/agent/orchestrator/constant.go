package orchestrator

import "time"

// MaxAgentSteps bounds the tool-calling loop for one chat turn.
const MaxAgentSteps = 5

// defaultToolTimeout bounds a single tool execution.
const defaultToolTimeout = 10 * time.Second

const systemPrompt = `You are the quest keeper of a gamified task tracker. ` +
	`Users describe things they want to get done; you turn them into time-boxed quests with XP rewards. ` +
	`Use getCurrentTime before computing any quest times. ` +
	`Use createTask to create quests the user asks for, and viewTasks to check what is already planned. ` +
	`Call tools only when needed. When you are done with tools, reply with nothing.`

const answerSystemPrompt = `You are the quest keeper of a gamified task tracker. ` +
	`Given the conversation transcript below, write the reply to the user: ` +
	`confirm any quests that were created (name, deadline, XP), answer their question, and keep it short and encouraging.`
